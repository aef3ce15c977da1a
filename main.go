package main

import (
	"errors"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/previewbox/image_upload_previewer/inits"
	"github.com/previewbox/image_upload_previewer/middleware"
	"github.com/previewbox/image_upload_previewer/models"
	"github.com/previewbox/image_upload_previewer/operations"
	"github.com/previewbox/image_upload_previewer/uploader"
	"github.com/previewbox/image_upload_previewer/validators"
)

const cleanupInterval = time.Minute

type serverConfig struct {
	Port           string
	UpstreamURL    string
	MaxUploadBytes int64
	BindingTTL     time.Duration
	RatePerMinute  float64
	AllowedDomains []string
}

func loadConfig() serverConfig {
	cfg := serverConfig{
		Port:           getEnv("PORT", "8080"),
		UpstreamURL:    getEnv("UPSTREAM_URL", "http://127.0.0.1:5000/upload"),
		MaxUploadBytes: getEnvInt64("MAX_UPLOAD_BYTES", 8<<20),
		BindingTTL:     getEnvDuration("BINDING_TTL", 15*time.Minute),
		RatePerMinute:  float64(getEnvInt64("RATE_LIMIT_PER_MINUTE", 60)),
	}
	if domains := os.Getenv("ALLOWED_DOMAINS"); domains != "" {
		for _, d := range strings.Split(domains, ",") {
			if d = strings.TrimSpace(d); d != "" {
				cfg.AllowedDomains = append(cfg.AllowedDomains, d)
			}
		}
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		log.Printf("Invalid %s=%q, using default", key, v)
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("Invalid %s=%q, using default", key, v)
		return fallback
	}
	return d
}

func main() {
	_ = godotenv.Load(".env")
	cfg := loadConfig()

	inits.DBInit(cleanupInterval)

	router := setupRouter(cfg, uploader.New(cfg.UpstreamURL))
	router.Run(":" + cfg.Port)
}

func setupRouter(cfg serverConfig, relay *uploader.Client) *gin.Engine {
	router := gin.Default()
	router.MaxMultipartMemory = cfg.MaxUploadBytes

	router.Use(middleware.DomainWhitelistMiddleware(cfg.AllowedDomains))
	router.Use(middleware.RateLimitMiddleware(cfg.RatePerMinute))

	router.GET("/", servePage)
	router.POST("/upload", uploadImage(relay, cfg))
	router.GET("/preview/:token", servePreview)
	router.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return router
}

func servePage(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(widgetPage))
}

// uploadImage relays the submitted file to the upstream endpoint and binds
// the response to a preview token. Relay failures are logged and answered
// with a bare 502; the client's previous preview stays untouched.
func uploadImage(relay *uploader.Client, cfg serverConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		file, err := c.FormFile(uploader.FieldName)
		if err != nil {
			// No file, no network call.
			c.String(http.StatusBadRequest, "Error getting file: "+err.Error())
			return
		}

		form := models.UploadForm{File: file, Client: c.ClientIP()}
		processed, err := validators.ValidateProcessUpload(form, cfg.MaxUploadBytes)
		if err != nil {
			c.String(http.StatusBadRequest, err.Error())
			return
		}

		seq, err := operations.BeginSubmission(form.Client)
		if err != nil {
			c.String(http.StatusInternalServerError, err.Error())
			return
		}

		result, err := relay.Send(c.Request.Context(), processed)
		if err != nil {
			log.Printf("Upload relay failed: client=%s err=%v", form.Client, err)
			c.String(http.StatusBadGateway, "upload failed")
			return
		}

		currentTime := time.Now()
		binding := &models.PreviewBinding{
			Token:       uuid.NewString(),
			Client:      form.Client,
			ContentType: result.ContentType,
			Content:     result.Body,
			Time:        currentTime.Format(time.RFC1123),
			Expiry:      currentTime.Add(cfg.BindingTTL).Format(time.RFC1123),
		}

		if err := operations.InsertBinding(binding, seq); err != nil {
			if errors.Is(err, operations.ErrSuperseded) {
				log.Printf("Discarded superseded upload response: client=%s seq=%d", form.Client, seq)
				c.JSON(http.StatusConflict, gin.H{"status": "superseded"})
				return
			}
			c.String(http.StatusInternalServerError, err.Error())
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":      "ok",
			"preview_url": "/preview/" + binding.Token,
		})
	}
}

func servePreview(c *gin.Context) {
	binding, err := operations.GetBinding(c.Param("token"))
	if err != nil {
		c.String(http.StatusNotFound, "preview not found")
		return
	}

	contentType := binding.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Data(http.StatusOK, contentType, binding.Content)
}
