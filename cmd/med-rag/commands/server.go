package commands

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/jinford/med-rag/internal/interface/httpapi"
)

// ServerStartAction はHTTPサーバを起動するコマンドのアクション
func ServerStartAction(ctx context.Context, cmd *cli.Command) error {
	envFile := cmd.String("env")

	appCtx, err := NewAppContext(ctx, envFile)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	port := appCtx.Config.Server.Port
	if p := cmd.Int("port"); p != 0 {
		port = p
	}

	server := httpapi.NewServer(port, appCtx.Chat,
		httpapi.WithServerLogger(appCtx.Logger()),
	)
	return server.Start(ctx)
}
