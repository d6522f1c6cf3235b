package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jinford/med-rag/cmd/med-rag/commands"
	"github.com/urfave/cli/v3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 構造化ログの設定
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	app := &cli.Command{
		Name:  "med-rag",
		Usage: "医療ドメイン向け RAG 質問応答システム",
		Commands: []*cli.Command{
			{
				Name:  "ingest",
				Usage: "CSVデータセットを知識ベースに取り込む",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "env",
						Usage: "環境変数ファイルパス",
						Value: ".env",
					},
					&cli.StringFlag{
						Name:  "data-dir",
						Usage: "データセットディレクトリ（省略時は環境変数 DATA_DIR）",
					},
				},
				Action: commands.IngestAction,
			},
			{
				Name:  "chat",
				Usage: "医療アシスタントとの対話セッションを開始",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "env",
						Usage: "環境変数ファイルパス",
						Value: ".env",
					},
				},
				Action: commands.ChatAction,
			},
			{
				Name:  "search",
				Usage: "回答生成なしで知識ベースを検索",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "env",
						Usage: "環境変数ファイルパス",
						Value: ".env",
					},
					&cli.StringFlag{
						Name:     "query",
						Usage:    "検索クエリ",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "type",
						Usage: "ドキュメント種別で絞り込み (dialogue/disease_description/precaution/faq/symptom_pattern/medicine_basic/medicine_detailed)",
					},
				},
				Action: commands.SearchAction,
			},
			{
				Name:  "stats",
				Usage: "知識ベースの統計情報を表示",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "env",
						Usage: "環境変数ファイルパス",
						Value: ".env",
					},
				},
				Action: commands.StatsAction,
			},
			{
				Name:  "reset",
				Usage: "知識ベースの全ドキュメントを削除",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "env",
						Usage: "環境変数ファイルパス",
						Value: ".env",
					},
					&cli.BoolFlag{
						Name:  "yes",
						Usage: "確認なしで削除を実行",
					},
				},
				Action: commands.ResetAction,
			},
			{
				Name:  "server",
				Usage: "サーバ関連コマンド",
				Commands: []*cli.Command{
					{
						Name:  "start",
						Usage: "HTTPサーバを起動",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:  "env",
								Usage: "環境変数ファイルパス",
								Value: ".env",
							},
							&cli.IntFlag{
								Name:  "port",
								Usage: "HTTPポート（省略時は環境変数またはデフォルトの8080）",
							},
						},
						Action: commands.ServerStartAction,
					},
				},
			},
		},
	}

	if err := app.Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}
