package main

import (
	"context"
	"fmt"
	"log"
	"net/url"

	_ "Backend-Claim3000/docs"
	"Backend-Claim3000/src/config"
	"Backend-Claim3000/src/database"
	"Backend-Claim3000/src/jobs"
	"Backend-Claim3000/src/routes"
	"Backend-Claim3000/src/services/affiliates"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/swagger"
)

// @title Claim3000 Lead Capture API
// @version 1.0
// @BasePath /api
func main() {
	config.Load()

	err := database.ConnectMongoDB()
	if err != nil {
		log.Fatalf("Error connecting to the database: %v", err)
	}

	database.InitRedis()
	database.InitAsynq()

	// missing default credentials is a deploy fault, refuse to start
	if err := affiliates.EnsureDefaultCredentials(context.Background()); err != nil {
		log.Fatalf("❌ %v", err)
	}

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false,
	}))

	app.Get("/swagger/*", swagger.HandlerDefault)

	// processed signatures are served from here
	app.Static("/uploads", config.UploadDir)

	routes.InitRoutes(app)

	if database.AsynqClient != nil {
		go jobs.RunWorker()
	}

	log.Println("Server is running on port " + config.AppPort)
	err = app.Listen(fmt.Sprintf(":%s", url.PathEscape(config.AppPort)))
	if err != nil {
		log.Fatal(err)
	}
}
