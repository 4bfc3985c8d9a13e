/* main.go
 * The "main" method for running the bot.
 * Usage: go run . -db="pickems.db" -guild="<guild id>"
 * Schedule import: go run . -db="pickems.db" -import="schedule.txt"
 */

package main

import (
	"context"
	"flag"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"nec-pickems/api/api"
	"nec-pickems/api/store"
	"nec-pickems/bot"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// The .env file is optional; tokens can come from the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file loaded")
	}
	if level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		log.SetLevel(level)
	}

	dbPtr := flag.String("db", "pickems.db", "Path to the SQLite database file")
	guildPtr := flag.String("guild", "", "Guild ID to register commands in (defaults to DISCORD_GUILD_ID)")
	windowPtr := flag.Duration("window", bot.DefaultPredictionWindow, "How long a prediction message accepts clicks")
	importPtr := flag.String("import", "", "Import a match schedule file and exit")
	testPtr := flag.Bool("test", false, "Use the beta bot token instead of production")
	flag.Parse()

	discordToken := os.Getenv("DISCORD_PROD_TOKEN")
	if *testPtr {
		discordToken = os.Getenv("DISCORD_BETA_TOKEN")
	}
	if *guildPtr == "" {
		*guildPtr = os.Getenv("DISCORD_GUILD_ID")
	}

	st, err := store.NewStore(*dbPtr)
	if err != nil {
		log.WithError(err).Fatal("failed to open database")
	}
	defer st.Close()

	apiPtr, err := api.NewAPI(st)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize API")
	}

	if *importPtr != "" {
		n, err := importSchedule(context.Background(), apiPtr, *importPtr)
		if err != nil {
			log.WithError(err).Fatal("schedule import failed")
		}
		log.WithField("matches", n).Info("schedule imported")
		return
	}

	b, err := bot.NewBot(discordToken, *guildPtr, apiPtr, *windowPtr, log)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize bot")
	}
	if err := b.Run(); err != nil {
		log.WithError(err).Fatal("bot exited with error")
	}
}
