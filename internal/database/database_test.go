package database

import (
	"context"
	"flag"
	"os"
	"testing"

	"github.com/rs/zerolog/log"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
)

var testURI string

func mustStartMongoContainer() (func(context.Context, ...testcontainers.TerminateOption) error, error) {
	dbContainer, err := mongodb.Run(context.Background(), "mongo:latest")
	if err != nil {
		return nil, err
	}

	uri, err := dbContainer.ConnectionString(context.Background())
	if err != nil {
		return dbContainer.Terminate, err
	}
	testURI = uri

	return dbContainer.Terminate, nil
}

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(m.Run())
	}

	teardown, err := mustStartMongoContainer()
	if err != nil {
		log.Fatal().Err(err).Msg("Could not start mongodb container")
	}

	code := m.Run()

	if teardown != nil {
		if err := teardown(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("Could not teardown mongodb container")
		}
	}

	os.Exit(code)
}

func TestNew(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test in short mode.")
	}

	srv := New(testURI, "entrevia_test")
	if srv == nil {
		t.Fatal("New() returned nil")
	}
	defer srv.Close()
}

func TestHealth(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test in short mode.")
	}

	srv := New(testURI, "entrevia_test")
	defer srv.Close()

	stats := srv.Health()
	if stats["status"] != "up" {
		t.Fatalf("expected status up, got %s", stats["status"])
	}
}

func TestEnsureIndexes(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test in short mode.")
	}

	srv := New(testURI, "entrevia_test")
	defer srv.Close()

	for _, collection := range []string{"users", "login_logs", "token_blacklist", "interviews"} {
		cursor, err := srv.Database().Collection(collection).Indexes().List(context.Background())
		if err != nil {
			t.Fatalf("listing indexes for %s: %v", collection, err)
		}
		var indexes []map[string]interface{}
		if err := cursor.All(context.Background(), &indexes); err != nil {
			t.Fatalf("decoding indexes for %s: %v", collection, err)
		}
		if len(indexes) < 2 {
			t.Errorf("expected secondary indexes on %s, got %d", collection, len(indexes))
		}
	}
}
