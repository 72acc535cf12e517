package main

import (
	"errors"
	"os"

	cmd "github.com/MrSnakeDoc/extwait/internal"
	"github.com/MrSnakeDoc/extwait/internal/logger"
	"github.com/MrSnakeDoc/extwait/internal/middleware"
)

func main() {
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, middleware.ErrLogged) {
			logger.LogError("%v", err)
		}
		os.Exit(1)
	}
}
