package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/redis/go-redis/v9"

	"github.com/ignite/outreach-engine/internal/api"
	"github.com/ignite/outreach-engine/internal/brief"
	"github.com/ignite/outreach-engine/internal/config"
	"github.com/ignite/outreach-engine/internal/crm"
	"github.com/ignite/outreach-engine/internal/generation"
	"github.com/ignite/outreach-engine/internal/geo"
	"github.com/ignite/outreach-engine/internal/mailer"
	"github.com/ignite/outreach-engine/internal/matching"
	"github.com/ignite/outreach-engine/internal/pkg/distlock"
	"github.com/ignite/outreach-engine/internal/registry"
	"github.com/ignite/outreach-engine/internal/repository/postgres"
	"github.com/ignite/outreach-engine/internal/workflow"
)

// checkPortAvailable verifies that the target port is not already in use.
func checkPortAvailable(host string, port int) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("port %d is already in use (addr %s): %v", port, addr, err)
	}
	ln.Close()
	return nil
}

func extractHost(dsn string) string {
	at := strings.Index(dsn, "@")
	if at < 0 {
		return "(unknown)"
	}
	rest := dsn[at+1:]
	if slash := strings.Index(rest, "/"); slash >= 0 {
		rest = rest[:slash]
	}
	return rest
}

func main() {
	log.Println("Outreach Engine server starting (cmd/server/main.go)")

	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	cfg, err := config.LoadFromEnv(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if os.Getenv("DATABASE_URL") != "" {
		log.Println("[config] DATABASE_URL env override active")
	}

	// Pre-flight: verify the target port is available
	host := cfg.Server.GetHost()
	port := cfg.Server.Port
	if err := checkPortAvailable(host, port); err != nil {
		log.Fatalf("Pre-flight check FAILED: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ===== Store =====
	var store workflow.Store
	if cfg.Database.Enabled && cfg.Database.URL != "" {
		log.Printf("[db] Connecting to PostgreSQL at %s", extractHost(cfg.Database.URL))
		db, err := sql.Open("postgres", cfg.Database.URL)
		if err != nil {
			log.Fatalf("[db] Failed to open database: %v", err)
		}
		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
		if err := db.PingContext(pingCtx); err != nil {
			log.Fatalf("[db] Database unreachable: %v", err)
		}
		pingCancel()

		pgStore := postgres.NewStore(db)
		if err := pgStore.EnsureSchema(ctx); err != nil {
			log.Fatalf("[db] Schema bootstrap failed: %v", err)
		}
		store = pgStore
		log.Println("[db] PostgreSQL store ready")
	} else {
		store = workflow.NewMemoryStore()
		log.Println("[db] Database disabled, using in-memory store (state is lost on restart)")
	}

	// ===== Redis (geo cache + send locks) =====
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, pingCancel := context.WithTimeout(ctx, 3*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			log.Printf("[redis] Warning: Redis unreachable (%v), continuing without cache or send locks", err)
			redisClient = nil
		}
		pingCancel()
	}

	// ===== Registry =====
	var reg *registry.Registry
	switch cfg.Registry.Type {
	case "file":
		reg, err = registry.LoadFile(cfg.Registry.Path)
		if err != nil {
			log.Fatalf("[registry] Failed to load %s: %v", cfg.Registry.Path, err)
		}
		log.Printf("[registry] Loaded %d organizations from %s", len(reg.All()), cfg.Registry.Path)
	case "s3":
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Registry.S3Region))
		if err != nil {
			log.Fatalf("[registry] Failed to load AWS config: %v", err)
		}
		reg, err = registry.LoadS3(ctx, s3.NewFromConfig(awsCfg), cfg.Registry.S3Bucket, cfg.Registry.S3Key)
		if err != nil {
			log.Fatalf("[registry] Failed to load s3://%s/%s: %v", cfg.Registry.S3Bucket, cfg.Registry.S3Key, err)
		}
		log.Printf("[registry] Loaded %d organizations from S3", len(reg.All()))
	default:
		reg = registry.Seed()
		log.Printf("[registry] Using seed registry (%d organizations)", len(reg.All()))
	}

	// ===== Brief analysis pipeline =====
	lex, err := brief.LoadLexicon(cfg.Outreach.LexiconPath)
	if err != nil {
		log.Fatalf("[brief] Failed to load lexicon %s: %v", cfg.Outreach.LexiconPath, err)
	}
	if cfg.Outreach.LexiconPath != "" {
		log.Printf("[brief] Lexicon overrides loaded from %s", cfg.Outreach.LexiconPath)
	}
	var resolver geo.Resolver = geo.NewStaticResolver()
	if redisClient != nil {
		resolver = geo.NewCachedResolver(resolver, redisClient, 0)
		log.Println("[geo] Location resolution cached in Redis")
	}
	analyzer := brief.NewAnalyzer(lex, resolver)

	// ===== Matching =====
	matcher := matching.NewMatcher(reg, lex, analyzer)
	var live matching.LiveSearcher
	if cfg.LiveSearch.Enabled && cfg.LiveSearch.BaseURL != "" {
		live = matching.NewHTTPSearcher(cfg.LiveSearch.BaseURL, cfg.LiveSearch.APIKey, nil)
		log.Printf("[search] Live search enabled: %s", cfg.LiveSearch.BaseURL)
	}
	searcher := matching.NewSearcher(matcher, live, time.Duration(cfg.LiveSearch.TimeoutSeconds)*time.Second)

	// ===== Generation =====
	var generator workflow.Generator
	if cfg.Bedrock.Enabled {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Bedrock.Region))
		if err != nil {
			log.Fatalf("[generation] Failed to load AWS config for Bedrock: %v", err)
		}
		generator = generation.NewBedrockGenerator(bedrockruntime.NewFromConfig(awsCfg), cfg.Bedrock.ModelID)
		log.Printf("[generation] Bedrock generation enabled (model %s)", cfg.Bedrock.ModelID)
	} else {
		generator = generation.NewTemplateGenerator("", "")
		log.Println("[generation] Bedrock disabled, using template generation")
	}

	// ===== Mail transport =====
	var transport workflow.Transport
	if cfg.SES.Enabled {
		sesTransport, err := mailer.NewSESTransport(ctx,
			cfg.SES.AccessKey, cfg.SES.SecretKey, cfg.SES.Region,
			cfg.SES.FromName, cfg.SES.FromEmail, cfg.SES.ReplyTo)
		if err != nil {
			log.Fatalf("[mailer] Failed to initialize SES: %v", err)
		}
		transport = sesTransport
		log.Printf("[mailer] SES sending enabled (region %s, from %s)", cfg.SES.Region, cfg.SES.FromEmail)
	} else {
		transport = mailer.NewMemoryTransport()
		log.Println("[mailer] SES disabled, dry-run transport active (emails are recorded, not delivered)")
	}

	// ===== Workflow engine =====
	var locks workflow.LockFactory
	if cfg.Outreach.DistributedSendLocks && redisClient != nil {
		locks = func(key string) distlock.DistLock {
			return distlock.NewRedisLock(redisClient, "sendlock:"+key, 30*time.Second)
		}
		log.Println("[workflow] Distributed send locks enabled")
	}
	engine := workflow.NewEngine(store, generator, transport, locks)

	// ===== CRM =====
	var crmAdapter crm.Adapter
	if cfg.CRM.Enabled && cfg.CRM.BaseURL != "" {
		crmAdapter = crm.NewHTTPClient(cfg.CRM.BaseURL, cfg.CRM.APIKey, &http.Client{Timeout: cfg.CRM.Timeout()})
		log.Printf("[crm] CRM integration enabled: %s", cfg.CRM.BaseURL)
	} else {
		log.Println("[crm] CRM integration disabled")
	}

	// ===== HTTP server =====
	handlers := api.NewHandlers(analyzer, searcher, engine, store, reg, crmAdapter)
	router := api.SetupRoutes(handlers)

	addr := fmt.Sprintf("%s:%d", host, port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("[server] Listening on http://%s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[server] ListenAndServe: %v", err)
		}
	}()

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	<-done
	log.Println("[server] Shutdown signal received")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[server] Graceful shutdown failed: %v", err)
	}
	if redisClient != nil {
		redisClient.Close()
	}
	log.Println("[server] Stopped")
}
