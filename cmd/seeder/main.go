package main

import (
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

// Simplified config loading for the script
func loadConfig() map[string]string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	config := make(map[string]string)
	required := []string{"TURSO_PRIMARY_URL", "TURSO_AUTH_TOKEN"}

	for _, key := range required {
		if value, ok := os.LookupEnv(key); ok {
			config[key] = value
		} else {
			log.Fatalf("Error: Required environment variable %s is not set.", key)
		}
	}
	return config
}

type seedPlayer struct {
	id    string
	name  string
	phone string
}

func main() {
	log.Info("Starting database seeder...")
	cfg := loadConfig()

	// Connect directly to the primary database
	dbURL := fmt.Sprintf("%s?authToken=%s", cfg["TURSO_PRIMARY_URL"], cfg["TURSO_AUTH_TOKEN"])
	db, err := sql.Open("libsql", dbURL)
	if err != nil {
		log.Fatalf("Failed to open primary database: %s", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to connect to primary database: %s", err)
	}

	log.Info("Successfully connected to the primary database.")

	// Create dummy players with ratings to hang matches on
	dummyPlayers := []seedPlayer{
		{id: uuid.NewString(), name: "Seeder Player A", phone: "+4910000001"},
		{id: uuid.NewString(), name: "Seeder Player B", phone: "+4910000002"},
		{id: uuid.NewString(), name: "Seeder Player C", phone: "+4910000003"},
		{id: uuid.NewString(), name: "Seeder Player D", phone: "+4910000004"},
	}

	now := time.Now().Unix()
	for _, p := range dummyPlayers {
		_, err := db.Exec("INSERT OR IGNORE INTO players (id, name, phone_number) VALUES (?, ?, ?)", p.id, p.name, p.phone)
		if err != nil {
			log.Fatalf("Failed to insert dummy player %s: %s", p.name, err)
		}
		_, err = db.Exec("INSERT OR IGNORE INTO ratings (player_id, rating, winning_quote, games_won, games_lost, last_change) VALUES (?, ?, NULL, 0, 0, ?)", p.id, 1000.0, now)
		if err != nil {
			log.Fatalf("Failed to insert rating for %s: %s", p.name, err)
		}
	}
	log.Info("Ensured dummy players and ratings exist.")

	const batchSize = 100 // Insert 100 matches at a time
	const numMatches = 10000

	log.Info("Preparing to insert dummy matches...", "total", numMatches, "batch_size", batchSize)
	startTime := time.Now()

	tx, err := db.Begin()
	if err != nil {
		log.Fatalf("Failed to begin transaction: %s", err)
	}

	disciplines := []string{"Normal", "14.1"}

	valueStrings := make([]string, 0, batchSize)
	valueArgs := make([]interface{}, 0, batchSize*9) // 9 columns per match

	for i := 0; i < numMatches; i++ {
		matchTime := time.Now().Add(-time.Duration(rand.Intn(365*24)) * time.Hour)
		a := dummyPlayers[rand.Intn(len(dummyPlayers))]
		b := dummyPlayers[rand.Intn(len(dummyPlayers))]
		for b.id == a.id {
			b = dummyPlayers[rand.Intn(len(dummyPlayers))]
		}
		scoreA := 10
		scoreB := rand.Intn(10)

		valueStrings = append(valueStrings, "(?, ?, ?, ?, ?, ?, ?, ?, ?)")
		valueArgs = append(valueArgs,
			fmt.Sprintf("#%06d", i+1),
			a.id,
			b.id,
			scoreA,
			scoreB,
			scoreA,
			disciplines[rand.Intn(len(disciplines))],
			rand.Float64()*15,
			matchTime.Unix(),
		)

		if (i+1)%batchSize == 0 || (i+1) == numMatches {
			stmt := fmt.Sprintf(`
				INSERT INTO matches (id, player_a, player_b, score_a, score_b, race_to, discipline, rating_change, created_at)
				VALUES %s;`, strings.Join(valueStrings, ","))

			_, err := tx.Exec(stmt, valueArgs...)
			if err != nil {
				tx.Rollback()
				log.Fatalf("Failed to execute batch insert: %s", err)
			}

			// Reset for the next batch
			valueStrings = make([]string, 0, batchSize)
			valueArgs = make([]interface{}, 0, batchSize*9)
			log.Info("Inserted batch", "completed", i+1, "total", numMatches)
		}
	}

	if err := tx.Commit(); err != nil {
		log.Fatalf("Failed to commit transaction: %s", err)
	}

	duration := time.Since(startTime)
	log.Info("Successfully inserted all dummy matches.", "duration", duration)
}
