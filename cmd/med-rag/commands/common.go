package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jinford/med-rag/internal/core/chat"
	"github.com/jinford/med-rag/internal/core/ingestion"
	"github.com/jinford/med-rag/internal/core/retrieval"
	"github.com/jinford/med-rag/internal/infra/csvsource"
	"github.com/jinford/med-rag/internal/infra/openai"
	"github.com/jinford/med-rag/internal/infra/postgres"
	"github.com/jinford/med-rag/internal/platform/logger"
	"github.com/jinford/med-rag/pkg/config"
	"github.com/jinford/med-rag/pkg/db"
)

// AppContext はコマンド実行に必要な共通コンテキストを保持する
type AppContext struct {
	Config    *config.Config
	Database  *db.DB
	Store     *postgres.Store
	Loader    *csvsource.Loader
	Ingestion *ingestion.Service
	Chat      *chat.Service

	logger *slog.Logger
}

// NewAppContext は設定を読み込み、DBに接続して依存関係を組み立てる
func NewAppContext(ctx context.Context, envFile string) (*AppContext, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, fmt.Errorf("設定の読み込みに失敗: %w", err)
	}
	if err := cfg.ValidateOpenAI(); err != nil {
		return nil, fmt.Errorf("OpenAI設定が不正: %w", err)
	}

	appLogger := logger.New(logger.FromEnv())

	database, err := db.New(ctx, db.ConnectionParams{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		return nil, fmt.Errorf("データベース接続に失敗: %w", err)
	}

	store := postgres.NewStore(database.Pool, cfg.OpenAI.EmbeddingDimension,
		postgres.WithStoreLogger(appLogger),
	)
	if err := store.Init(ctx); err != nil {
		database.Close()
		return nil, fmt.Errorf("ストアの初期化に失敗: %w", err)
	}

	embedder := openai.NewEmbedder(cfg.OpenAI.APIKey,
		openai.WithEmbeddingModel(cfg.OpenAI.EmbeddingModel),
		openai.WithEmbeddingDimension(cfg.OpenAI.EmbeddingDimension),
	)

	completer, err := openai.NewCompleter(cfg.OpenAI.APIKey,
		openai.WithCompletionModel(cfg.OpenAI.CompletionModel),
		openai.WithCompletionTemperature(cfg.OpenAI.Temperature),
		openai.WithCompleterLogger(appLogger),
	)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("生成クライアントの初期化に失敗: %w", err)
	}

	retriever := retrieval.NewRetriever(store, embedder,
		retrieval.WithRetrieverLogger(appLogger),
	)
	policy := retrieval.NewPolicy(retriever,
		retrieval.WithPolicyLogger(appLogger),
	)

	loader := csvsource.NewLoader(cfg.DataDir,
		csvsource.WithMaxMedicineRecords(cfg.MaxMedicineRecords),
		csvsource.WithLoaderLogger(appLogger),
	)

	ingestionSvc := ingestion.NewService(
		ingestion.NewBuilder(),
		embedder,
		store,
		ingestion.WithIngestionLogger(appLogger),
	)

	chatSvc := chat.NewService(policy, retriever, store, completer,
		chat.WithChatLogger(appLogger),
	)

	return &AppContext{
		Config:    cfg,
		Database:  database,
		Store:     store,
		Loader:    loader,
		Ingestion: ingestionSvc,
		Chat:      chatSvc,
		logger:    appLogger,
	}, nil
}

// Close はAppContextが保持するリソースをクリーンアップする
func (ac *AppContext) Close() {
	if ac.Database != nil {
		ac.Database.Close()
	}
}

// Logger はAppContextのロガーを返す
func (ac *AppContext) Logger() *slog.Logger {
	if ac.logger != nil {
		return ac.logger
	}
	return slog.Default()
}
