package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Skill method returns the skill with the given ID.
func (ms *MongoStorage) Skill(id uint64) (*Skill, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	skill := &Skill{}
	if err := ms.skills.FindOne(ctx, bson.M{"_id": id}).Decode(skill); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return skill, nil
}

// SetSkill method creates or updates the skill in the database and returns
// its ID. Skill names are unique; a duplicate name returns ErrInvalidData.
func (ms *MongoStorage) SetSkill(skill *Skill) (uint64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	if skill.Name == "" {
		return 0, ErrInvalidData
	}
	if skill.ID == 0 {
		nextID, err := nextID(ctx, ms.skills)
		if err != nil {
			return 0, err
		}
		skill.ID = nextID
		skill.CreatedAt = time.Now()
	}
	updateDoc := bson.M{"$set": skill}
	opts := options.Update().SetUpsert(true)
	if _, err := ms.skills.UpdateOne(ctx, bson.M{"_id": skill.ID}, updateDoc, opts); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return 0, ErrInvalidData
		}
		return 0, err
	}
	return skill.ID, nil
}

// DelSkill method removes the skill with the given ID.
func (ms *MongoStorage) DelSkill(id uint64) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	res, err := ms.skills.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Skills method returns a page of skills sorted by name, optionally filtered
// by category.
func (ms *MongoStorage) Skills(category string, page, pageSize int64) ([]*Skill, int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}
	total, err := ms.skills.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	opts := paginationOpts(page, pageSize).SetSort(bson.D{{Key: "name", Value: 1}})
	cur, err := ms.skills.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = cur.Close(ctx) }()

	var skills []*Skill
	if err := cur.All(ctx, &skills); err != nil {
		return nil, 0, err
	}
	return skills, total, nil
}
