package main

import (
	"context"
	"fmt"

	"undercover-be/internal/api/http"
	"undercover-be/internal/config"
	"undercover-be/internal/history"
	"undercover-be/internal/logger"
	"undercover-be/internal/service"
	"undercover-be/internal/service/game"
	"undercover-be/internal/state"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const releaseVersion = "0.2.0"

func main() {
	cobra.CheckErr(newCmd().Execute())
}

func newCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "undercover-be",
		Short:         "Room server for the who-is-undercover party game.",
		Args:          cobra.ExactArgs(0),
		Version:       releaseVersion,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// 加载配置
			cfg, err := config.InitConfig(cmd.Flags())
			if err != nil {
				return err
			}

			// 初始化日志器
			if err := logger.InitLogger(cfg.LogLevel); err != nil {
				return err
			}
			defer zap.L().Sync()

			return run(cmd.Context(), cfg)
		},
	}

	config.RegisterFlags(cmd.Flags())

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("undercover-be v{{.Version}}\n")

	return cmd
}

func run(ctx context.Context, cfg *config.AppConfig) error {
	if ctx == nil {
		ctx = context.Background()
	}

	recorder, err := newRecorder(ctx, cfg)
	if err != nil {
		return err
	}
	defer recorder.Close()

	pairs := make([]game.WordPair, 0, len(cfg.WordPairs))
	for _, p := range cfg.WordPairs {
		pairs = append(pairs, game.WordPair{Primary: p.Primary, Secondary: p.Secondary})
	}

	roomSvc := service.NewRoomService(service.RoomServiceOptions{
		RoomTTL: cfg.RoomTTL,
		Machine: game.MachineOptions{
			Words:       game.NewListSource(pairs, nil),
			Assigner:    game.NewRoleAssigner(nil, cfg.BlankCount),
			Recorder:    recorder,
			MinPlayers:  cfg.MinPlayers,
			WordTimeout: cfg.WordFetchTimeout,
		},
	})
	defer roomSvc.Close()

	// 组装应用状态
	appState := state.NewAppState(cfg, roomSvc)

	zap.L().Info("服务器启动", zap.String("addr", cfg.Addr()))

	// 启动服务器
	if err := http.RunServer(appState); err != nil {
		return fmt.Errorf("服务器运行失败: %w", err)
	}

	return nil
}

// 配置了 Redis 地址时记录投票历史，否则丢弃
func newRecorder(ctx context.Context, cfg *config.AppConfig) (history.Recorder, error) {
	if cfg.Redis.Addr == "" {
		return history.NopRecorder{}, nil
	}

	rr, err := history.NewRedisRecorder(ctx, cfg.Redis.Addr, cfg.Redis.DB, cfg.Redis.Queue)
	if err != nil {
		return nil, err
	}

	zap.L().Info(
		"投票历史写入 Redis",
		zap.String("addr", cfg.Redis.Addr),
		zap.String("queue", cfg.Redis.Queue),
	)

	return rr, nil
}
