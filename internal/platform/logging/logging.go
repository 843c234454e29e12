package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/ogurasousui/codex-grpc-team-scope/internal/platform/config"
	"github.com/sirupsen/logrus"
)

// New は設定に従ってロガーを生成します。out が nil の場合は標準エラー出力です。
func New(cfg config.LogConfig, out io.Writer) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}

	if out == nil {
		out = os.Stderr
	}

	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(level)

	switch cfg.Format {
	case "text":
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	default:
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	return logger, nil
}
