// Package test provides testing utilities for the volunteer backend service,
// including test containers for MongoDB and mail services.
package test

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// MongoPort is the port exposed by the MongoDB test container.
const MongoPort = "27017"

// StartMongoContainer starts a MongoDB container for testing. It returns the
// container and any error encountered during startup.
func StartMongoContainer(ctx context.Context) (testcontainers.Container, error) {
	exposedPort := fmt.Sprintf("%s/tcp", MongoPort)
	return testcontainers.GenericContainer(ctx,
		testcontainers.GenericContainerRequest{
			ContainerRequest: testcontainers.ContainerRequest{
				Image:        "mongo:7",
				ExposedPorts: []string{exposedPort},
				WaitingFor:   wait.ForListeningPort(nat.Port(exposedPort)),
			},
			Started: true,
		})
}

// MongoURI returns the connection URI of a running MongoDB container.
func MongoURI(ctx context.Context, container testcontainers.Container) (string, error) {
	host, err := container.Host(ctx)
	if err != nil {
		return "", err
	}
	port, err := container.MappedPort(ctx, nat.Port(MongoPort))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("mongodb://%s:%s", host, port.Port()), nil
}

// RandomDatabaseName returns a unique database name so parallel test
// packages never share state inside the same container.
func RandomDatabaseName() string {
	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	return fmt.Sprintf("testdb_%d", rnd.Int63())
}
