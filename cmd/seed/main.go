// Command main runs the database seeder for Snapshare.
package main

import (
	"context"
	"flag"
	"log"

	"snapshare/internal/config"
	"snapshare/internal/database"
	"snapshare/internal/seed"
)

func main() {
	defaults := seed.DefaultOptions()

	// Parse command line flags
	numUsers := flag.Int("users", defaults.NumUsers, "Number of users to create")
	numPosts := flag.Int("posts", defaults.NumPosts, "Number of posts to create")
	maxLikes := flag.Int("likes", defaults.MaxLikesPerPost, "Maximum likes per post")
	maxComments := flag.Int("comments", defaults.MaxCommentsPerPost, "Maximum comments per post")
	follows := flag.Int("follows", defaults.FollowsPerUser, "Maximum follows per user")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	dryRun := flag.Bool("dry-run", false, "Generate data without writing it")
	scenario := flag.String("scenario", "", "YAML scenario applied after the random data (e.g. internal/seed/testdata/scenario.yml)")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")
	log.Printf("Target: %d users, %d posts, clean=%v\n", *numUsers, *numPosts, *shouldClean)

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()
	db, err := database.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	opts := defaults
	opts.NumUsers = *numUsers
	opts.NumPosts = *numPosts
	opts.MaxLikesPerPost = *maxLikes
	opts.MaxCommentsPerPost = *maxComments
	opts.FollowsPerUser = *follows
	opts.ShouldClean = *shouldClean
	opts.DryRun = *dryRun

	summary, err := seed.Seed(ctx, db, opts)
	if err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}
	log.Printf("Seeded %s", summary)

	if *scenario != "" {
		sc, err := seed.LoadScenario(*scenario)
		if err != nil {
			log.Fatalf("❌ Scenario load failed: %v", err)
		}
		applied, err := seed.ApplyScenario(ctx, db, sc, opts)
		if err != nil {
			log.Fatalf("❌ Scenario seeding failed: %v", err)
		}
		log.Printf("Scenario %s: %s", *scenario, applied)
	}

	log.Println("✨ All done! Your database is now populated with test data.")
	log.Printf("📧 All test users have the password: %s", seed.DefaultPassword)
}
