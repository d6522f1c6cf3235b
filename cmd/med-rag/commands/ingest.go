package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/jinford/med-rag/internal/core/document"
	"github.com/jinford/med-rag/internal/infra/csvsource"
	"github.com/jinford/med-rag/pkg/lock"
)

// IngestAction はCSVデータセットを知識ベースに取り込むコマンドのアクション
func IngestAction(ctx context.Context, cmd *cli.Command) error {
	envFile := cmd.String("env")

	appCtx, err := NewAppContext(ctx, envFile)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	// 同時に複数の取り込みが走らないようロックを取る
	ingestLock, err := lock.Acquire(ctx, appCtx.Database.Pool, lock.GenerateLockID("med-rag", "ingest"))
	if err != nil {
		return fmt.Errorf("取り込みロックの取得に失敗: %w", err)
	}
	defer ingestLock.Release(ctx)

	loader := appCtx.Loader
	if dir := cmd.String("data-dir"); dir != "" {
		loader = csvsource.NewLoader(dir,
			csvsource.WithMaxMedicineRecords(appCtx.Config.MaxMedicineRecords),
			csvsource.WithLoaderLogger(appCtx.Logger()),
		)
	}

	dataset, err := loader.Load()
	if err != nil {
		return fmt.Errorf("データセットの読み込みに失敗: %w", err)
	}

	report, err := appCtx.Ingestion.Ingest(ctx, dataset)
	if err != nil {
		return fmt.Errorf("取り込みに失敗: %w", err)
	}

	fmt.Println("取り込みが完了しました")
	fmt.Printf("  生成チャンク数: %d\n", report.TotalBuilt)
	fmt.Printf("  格納ドキュメント数: %d\n", report.TotalStored)
	fmt.Printf("  スキップ件数: %d\n", report.Skipped)
	for _, docType := range document.AllDocTypes() {
		if count, ok := report.BuiltByType[docType]; ok {
			fmt.Printf("  %s: %d\n", docType, count)
		}
	}

	return nil
}
