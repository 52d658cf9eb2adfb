package db

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestUserLifecycle(t *testing.T) {
	c := qt.New(t)
	defer func() {
		c.Assert(testDB.Reset(), qt.IsNil)
	}()

	id, err := testDB.SetUser(&User{
		Email:     "volunteer@example.com",
		Password:  "hashed",
		FirstName: "Sam",
		LastName:  "Rivera",
	})
	c.Assert(err, qt.IsNil)

	user, err := testDB.User(id)
	c.Assert(err, qt.IsNil)
	// new accounts default to the member role
	c.Assert(user.Role, qt.Equals, MemberRole)
	c.Assert(user.CreatedAt.IsZero(), qt.IsFalse)

	byEmail, err := testDB.UserByEmail("volunteer@example.com")
	c.Assert(err, qt.IsNil)
	c.Assert(byEmail.ID, qt.Equals, id)

	// duplicate email is rejected
	_, err = testDB.SetUser(&User{
		Email:     "volunteer@example.com",
		Password:  "other",
		FirstName: "Other",
		LastName:  "Person",
	})
	c.Assert(err, qt.Equals, ErrInvalidData)

	c.Assert(testDB.DelUser(user), qt.IsNil)
	_, err = testDB.User(id)
	c.Assert(err, qt.Equals, ErrNotFound)
}

func TestUsersPagination(t *testing.T) {
	c := qt.New(t)
	defer func() {
		c.Assert(testDB.Reset(), qt.IsNil)
	}()

	emails := []string{"a@example.com", "b@example.com", "c@example.com"}
	for _, email := range emails {
		_, err := testDB.SetUser(&User{Email: email, Password: "x", FirstName: "F", LastName: "L"})
		c.Assert(err, qt.IsNil)
	}

	users, total, err := testDB.Users(1, 2)
	c.Assert(err, qt.IsNil)
	c.Assert(total, qt.Equals, int64(3))
	c.Assert(users, qt.HasLen, 2)

	users, _, err = testDB.Users(2, 2)
	c.Assert(err, qt.IsNil)
	c.Assert(users, qt.HasLen, 1)
}
