// Package app wires the HTTP surface together: middleware, routes and
// the dependencies the handlers share
package app

import (
	"fmt"
	"strings"
	"time"

	"bitwise74/social-api/app/post"
	"bitwise74/social-api/app/root"
	"bitwise74/social-api/app/upload"
	"bitwise74/social-api/app/user"
	"bitwise74/social-api/aws"
	"bitwise74/social-api/db"
	"bitwise74/social-api/internal"
	"bitwise74/social-api/internal/auth"
	"bitwise74/social-api/internal/service"
	"bitwise74/social-api/internal/store"
	"bitwise74/social-api/pkg/middleware"
	"bitwise74/social-api/pkg/security"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	gray  = "\x1b[90m"
	reset = "\x1b[0m"
)

var cacheStore = persist.NewMemoryStore(time.Minute)

func NewRouter() (*gin.Engine, error) {
	makeLogger()

	gormDB, err := db.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}

	d := &internal.Deps{
		Store:    store.New(gormDB),
		JobQueue: service.NewJobQueue(),
		Mailer:   service.NewSMTPMailer(),
		Images:   service.NewImageClient(),
	}

	scheme := "http"
	if viper.GetBool("host.ssl.enabled") {
		scheme = "https"
	}

	d.Auth = &auth.Authenticator{
		Users:          d.Store,
		Argon:          security.NewArgon(),
		Tokens:         security.NewTokenCodec(viper.GetString("jwt.secret")),
		Jobs:           d.JobQueue,
		Mailer:         d.Mailer,
		ConfirmURLBase: fmt.Sprintf("%s://%s/api/users/confirm?token=", scheme, viper.GetString("host.domain")),
	}

	if viper.GetString("aws.bucket") != "" {
		s3, err := aws.NewS3()
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 client, %w", err)
		}
		d.S3 = s3
	}

	router := gin.New()

	origins := strings.Split(viper.GetString("host.cors"), ",")

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     origins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "TurnstileToken"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("requestID", v))
				}

				if v := c.GetString("userID"); v != "" {
					fields = append(fields, zap.String("userID", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true
	router.RedirectFixedPath = true

	rateLimit := viper.GetInt("security.rate_limit")
	maxUploadSize := viper.GetInt64("upload.max_size")

	authMW := middleware.NewAuthMiddleware(d.Auth)
	turnstile := middleware.NewTurnstileMiddleware()
	rateLimiter := middleware.RateLimiterMiddleware(middleware.RateLimiterConfig{
		RequestsPerSecond: rateLimit,
		Burst:             rateLimit * 2,
		CleanupInterval:   time.Second,
	})

	m := router.Group("/api", rateLimiter)
	{
		// HEAD /api/heartbeat 		-> Used to check if the server is alive
		m.HEAD("/heartbeat", root.Heartbeat)

		// GET /api/validate		-> Validates an access token
		m.GET("/validate", authMW, root.Validate)
	}

	u := m.Group("/users", middleware.BodySizeLimiter(1<<20))
	{
		// POST /api/users 		-> Registers a new user
		u.POST("", turnstile, func(c *gin.Context) { user.UserRegister(c, d) })

		// POST /api/users/login 	-> Logs in a user and returns an access token
		u.POST("/login", func(c *gin.Context) { user.UserLogin(c, d) })

		// GET /api/users/confirm	-> Confirms a new user's email
		u.GET("/confirm", func(c *gin.Context) { user.UserConfirm(c, d) })

		// GET /api/users		-> Returns the caller's profile and posts
		u.GET("", authMW, func(c *gin.Context) { user.UserFetch(c, d) })
	}

	p := m.Group("/posts")
	{
		// GET /api/posts		-> Lists the latest posts
		p.GET("", cacheFor(15), func(c *gin.Context) { post.PostList(c, d) })

		// GET /api/posts/:id		-> Returns a post with its comments
		p.GET("/:id", func(c *gin.Context) { post.PostFetch(c, d) })

		// POST /api/posts		-> Creates a post, optionally with an image prompt
		p.POST("", authMW, middleware.BodySizeLimiter(1<<20), func(c *gin.Context) { post.PostCreate(c, d) })

		// GET /api/posts/:id/comments	-> Lists the comments on a post
		p.GET("/:id/comments", func(c *gin.Context) { post.CommentList(c, d) })

		// POST /api/posts/:id/comments	-> Comments on a post
		p.POST("/:id/comments", authMW, middleware.BodySizeLimiter(1<<20), func(c *gin.Context) { post.CommentCreate(c, d) })
	}

	if d.S3 != nil {
		// POST /api/upload		-> Uploads a file and returns its public URL
		m.POST("/upload", authMW, middleware.BodySizeLimiter(maxUploadSize), func(c *gin.Context) { upload.FileUpload(c, d) })
	}

	d.JobQueue.StartWorkerPool()

	return router, nil
}

func makeLogger() {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + t.Format("15:04:05.000") + reset)
	}
	cfg.EncoderConfig.EncodeCaller = func(ec zapcore.EntryCaller, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + ec.TrimmedPath() + reset)
	}

	cfg.DisableStacktrace = true

	log, _ := cfg.Build()
	zap.ReplaceGlobals(log)
}

func cacheFor(sec int) gin.HandlerFunc {
	return cache.CacheByRequestURI(cacheStore, time.Second*time.Duration(sec))
}
