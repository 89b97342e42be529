package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"pressroom/admin"
	"pressroom/blog"
	"pressroom/cache"
	"pressroom/common"
	"pressroom/database"
	"pressroom/newsletter"
	"pressroom/queue"
	"pressroom/store"
	"pressroom/views"
)

func main() {
	db := common.ConnectDb()
	if db == nil {
		log.Fatal("Failed to connect to database")
	}

	if err := database.RunMigrations(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	baseURL := os.Getenv("DOMAIN")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	q := queue.New(64)
	notifier := newsletter.NewNotifier(db, newsletter.NewSMTPMailer(), baseURL)
	q.Subscribe(notifier.HandlePostPublished)
	q.Start()
	defer q.Close()

	posts := store.NewPostStore(db, q)
	categories := store.NewCategoryStore(db)
	tags := store.NewTagStore(db)
	comments := store.NewCommentStore(db)
	recorder := views.NewRecorder(db)
	subscribers := newsletter.NewSubscribers(db)

	router := gin.Default()

	sessionSecret := os.Getenv("SESSION_SECRET")
	if sessionSecret == "" {
		log.Fatal("SESSION_SECRET environment variable not set")
	}

	sessionStore := cookie.NewStore([]byte(sessionSecret))
	sessionStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		Secure:   false,
	})

	router.Use(sessions.Sessions("pressroom-session", sessionStore))
	router.Use(cache.Middleware(10 * time.Minute))

	router.SetFuncMap(map[string]interface{}{
		"now": func() time.Time {
			return time.Now()
		},
		"domain": func() string {
			return baseURL
		},
	})

	router.LoadHTMLGlob("*/views/*.html")
	router.Static("/public", "./public")

	blogModule := blog.NewBlogModule(db, posts, comments, recorder, subscribers)
	blogModule.RegisterRoutes(router)

	adminModule := admin.NewAdminModule(db, posts, categories, tags, comments, recorder, subscribers)
	adminModule.RegisterRoutes(router)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting server on port %s...", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
