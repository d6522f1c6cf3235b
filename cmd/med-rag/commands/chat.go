package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/samber/mo"
	"github.com/urfave/cli/v3"

	"github.com/jinford/med-rag/internal/core/chat"
	"github.com/jinford/med-rag/internal/core/document"
)

// chatHistoryLimit は対話セッションで保持する会話往復数の上限
const chatHistoryLimit = 10

// ChatAction は対話セッションを開始するコマンドのアクション
func ChatAction(ctx context.Context, cmd *cli.Command) error {
	envFile := cmd.String("env")

	appCtx, err := NewAppContext(ctx, envFile)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	fmt.Println("医療アシスタントとの対話を開始します（help でコマンド一覧、quit で終了）")

	var history []chat.Exchange
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch {
		case line == "quit" || line == "exit":
			fmt.Println("対話を終了します")
			return nil

		case line == "help":
			printChatHelp()

		case line == "stats":
			if err := printStats(ctx, appCtx); err != nil {
				fmt.Printf("統計情報の取得に失敗しました: %v\n", err)
			}

		case strings.HasPrefix(line, "search:"):
			query := strings.TrimSpace(strings.TrimPrefix(line, "search:"))
			if query == "" {
				fmt.Println("検索クエリを指定してください（例: search: flu symptoms）")
				continue
			}
			printSearchResults(ctx, appCtx, query, mo.None[document.DocType]())

		case strings.HasPrefix(line, "symptoms:"):
			symptoms := strings.TrimSpace(strings.TrimPrefix(line, "symptoms:"))
			if symptoms == "" {
				fmt.Println("症状を指定してください（例: symptoms: fever, cough）")
				continue
			}
			result, err := appCtx.Chat.MedicalAdvice(ctx, symptoms, "")
			if err != nil {
				fmt.Printf("回答の生成に失敗しました: %v\n", err)
				continue
			}
			fmt.Printf("\n%s\n\n（参照ソース数: %d）\n", result.Response, result.NumSources)

		default:
			result, err := appCtx.Chat.ChatWithHistory(ctx, history, line)
			if err != nil {
				fmt.Printf("回答の生成に失敗しました: %v\n", err)
				continue
			}
			fmt.Printf("\n%s\n\n（参照ソース数: %d）\n", result.Response, result.NumSources)

			history = append(history, chat.Exchange{
				Question: line,
				Response: result.Response,
			})
			if len(history) > chatHistoryLimit {
				history = history[len(history)-chatHistoryLimit:]
			}
		}
	}

	return scanner.Err()
}

func printChatHelp() {
	fmt.Println("利用可能なコマンド:")
	fmt.Println("  help                コマンド一覧を表示")
	fmt.Println("  stats               知識ベースの統計情報を表示")
	fmt.Println("  search: <query>     回答生成なしで知識ベースを検索")
	fmt.Println("  symptoms: <text>    症状ベースの相談（免責文付き）")
	fmt.Println("  quit / exit         対話を終了")
	fmt.Println("  その他の入力        質問として回答を生成")
}

func printStats(ctx context.Context, appCtx *AppContext) error {
	stats, err := appCtx.Chat.Stats(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("総ドキュメント数: %d\n", stats.TotalDocuments)
	for _, docType := range document.AllDocTypes() {
		if count, ok := stats.DocumentTypes[docType]; ok {
			fmt.Printf("  %s: %d\n", docType, count)
		}
	}
	return nil
}

func printSearchResults(ctx context.Context, appCtx *AppContext, query string, docType mo.Option[document.DocType]) {
	matches := appCtx.Chat.SearchKnowledgeBase(ctx, query, docType)
	if len(matches) == 0 {
		fmt.Println("該当するドキュメントが見つかりませんでした")
		return
	}

	for i, m := range matches {
		fmt.Printf("[%d] %s (similarity=%.3f, type=%s)\n", i+1, m.ID, m.Similarity, m.Metadata.DocType())
		fmt.Printf("    %s\n", truncateText(m.Text, 200))
	}
}

// truncateText は表示用にテキストを最大 n 文字に切り詰める
func truncateText(s string, n int) string {
	runes := []rune(strings.ReplaceAll(s, "\n", " "))
	if len(runes) <= n {
		return string(runes)
	}
	return string(runes[:n]) + "..."
}
