// Command main runs the database seeder for Echoroom.
package main

import (
	"flag"
	"log"

	"echoroom/internal/config"
	"echoroom/internal/database"
	"echoroom/internal/seed"
)

func main() {
	// Parse command line flags
	numSessions := flag.Int("sessions", 7, "Number of sessions to create")
	numMessages := flag.Int("messages", 20, "Number of messages per session")
	numParticipants := flag.Int("participants", 4, "Number of participants per session")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")
	log.Printf("Target: %d sessions, %d messages each, clean=%v\n", *numSessions, *numMessages, *shouldClean)

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	if _, err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Seed(database.DB, seed.Options{
		NumSessions:            *numSessions,
		MessagesPerSession:     *numMessages,
		ParticipantsPerSession: *numParticipants,
		ShouldClean:            *shouldClean,
	}); err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Println("✨ All done! Your database is now populated with demo rooms.")
}
