package main

import (
	"log"

	"github.com/m3rciful/tgbots/bots/quiz/app"
	"github.com/m3rciful/tgbots/core/cmd"
)

func main() {
	if err := cmd.Run(cmd.Options{
		DefaultConfigPath: "configs/quizbot.yaml",
		LoadConfig:        app.LoadConfig,
		Bootstrap:         app.Bootstrap,
	}); err != nil {
		log.Fatal(err)
	}
}
