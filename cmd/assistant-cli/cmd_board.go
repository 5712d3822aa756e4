package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/janhq/chat-assistant/internal/domain/conversation"
	"github.com/janhq/chat-assistant/internal/infrastructure"
)

var boardSyncCmd = &cobra.Command{
	Use:   "board-sync",
	Short: "Mirror all conversations to the Monday.com board",
	Long:  `Creates or updates one board item per stored conversation and skips items that are already current.`,
	RunE:  runBoardSync,
}

func runBoardSync(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := infrastructure.ProvideConfig()
	if err != nil {
		return err
	}
	log, err := infrastructure.ProvideLogger(cfg)
	if err != nil {
		return err
	}
	store, cleanup, err := infrastructure.ProvideStore(cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	client := infrastructure.ProvideMondayClient(cfg)
	syncer := infrastructure.ProvideBoardSyncService(cfg, client, conversation.NewConversationService(store.Conversations), log)
	if syncer == nil {
		return fmt.Errorf("MONDAY_API_TOKEN and MONDAY_CONVERSATION_BOARD_ID must be set")
	}

	stats, err := syncer.SyncAll(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "created=%d updated=%d skipped=%d failed=%d\n", stats.Created, stats.Updated, stats.Skipped, stats.Failed)
	return nil
}
