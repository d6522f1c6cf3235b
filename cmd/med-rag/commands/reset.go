package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/jinford/med-rag/pkg/lock"
)

// ResetAction は知識ベースの全ドキュメントを削除するコマンドのアクション
func ResetAction(ctx context.Context, cmd *cli.Command) error {
	envFile := cmd.String("env")

	if !cmd.Bool("yes") {
		return fmt.Errorf("全ドキュメントを削除するには --yes を指定してください")
	}

	appCtx, err := NewAppContext(ctx, envFile)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	// 取り込みと同じロックを取り、削除中の同時書き込みを防ぐ
	ingestLock, err := lock.Acquire(ctx, appCtx.Database.Pool, lock.GenerateLockID("med-rag", "ingest"))
	if err != nil {
		return fmt.Errorf("取り込みロックの取得に失敗: %w", err)
	}
	defer ingestLock.Release(ctx)

	if err := appCtx.Ingestion.Reset(ctx); err != nil {
		return fmt.Errorf("知識ベースのリセットに失敗: %w", err)
	}

	fmt.Println("知識ベースをリセットしました")
	return nil
}
