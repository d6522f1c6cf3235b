package commands

import (
	"context"

	"github.com/urfave/cli/v3"
)

// StatsAction は知識ベースの統計情報を表示するコマンドのアクション
func StatsAction(ctx context.Context, cmd *cli.Command) error {
	envFile := cmd.String("env")

	appCtx, err := NewAppContext(ctx, envFile)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	return printStats(ctx, appCtx)
}
