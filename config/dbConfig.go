package database

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// LoadEnv loads environment variables from the .env file when present.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}
}

// DBinstance connects to MongoDB using the DB connection string. A missing
// connection string is fatal at startup.
func DBinstance() *mongo.Client {
	LoadEnv()

	uri := os.Getenv("DB")
	if uri == "" {
		log.Fatal("DB is not set in the environment variables")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		log.Fatal(err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		log.Fatal(err)
	}

	log.Println("Connected to MongoDB")
	return client
}

// OpenDatabase returns the application database, named by DB_NAME.
func OpenDatabase(client *mongo.Client) *mongo.Database {
	name := os.Getenv("DB_NAME")
	if name == "" {
		name = "narudbe"
	}
	return client.Database(name)
}
