package commands

import (
	"context"
	"fmt"

	"github.com/samber/mo"
	"github.com/urfave/cli/v3"

	"github.com/jinford/med-rag/internal/core/document"
)

// SearchAction は知識ベースを直接検索するコマンドのアクション
func SearchAction(ctx context.Context, cmd *cli.Command) error {
	envFile := cmd.String("env")
	query := cmd.String("query")

	docType := mo.None[document.DocType]()
	if typeStr := cmd.String("type"); typeStr != "" {
		t := document.DocType(typeStr)
		if !t.Valid() {
			return fmt.Errorf("不明なドキュメント種別: %s", typeStr)
		}
		docType = mo.Some(t)
	}

	appCtx, err := NewAppContext(ctx, envFile)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	printSearchResults(ctx, appCtx, query, docType)
	return nil
}
