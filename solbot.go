package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	log "github.com/sirupsen/logrus"

	"solbot/bot"
	"solbot/config"
	"solbot/notifications"
	"solbot/rewards"
	"solbot/solclient"
	"solbot/stakewiz"
	"solbot/webserver"
)

var (
	version    = "dev"
	commitHash = "unknown"

	server *SolBotServer
)

type SolBotServer struct {
	*bot.Bot
	*notifications.NotificationHandler
	*webserver.WebServer
	Flags

	cfg config.Config
}

// Flags Server flags
type Flags struct {
	logDebug bool
	logTrace bool
	logFile  string
	envFile  string
}

func main() {
	// Used throughout main
	var (
		err error
		wg  sync.WaitGroup
	)

	server = new(SolBotServer)
	server.parseArgs()

	server.cfg, err = config.Load(server.envFile)
	if err != nil {
		log.WithError(err).Fatal("Unable to load configuration")
	}

	// Logging
	setupLogging(server.cfg.LogLevel, server.logDebug, server.logTrace, server.logFile)

	// Clean exits
	shutdownChannel, shutdown := setupCloseChannel()

	log.Infof("=== solbot %s (%s) ===", version, commitHash)
	log.WithFields(log.Fields{
		"Identity": server.cfg.IdentityAddress, "Vote": server.cfg.VoteAddress,
	}).Info("Reporting for validator")

	httpClient := &http.Client{
		Timeout: server.cfg.HTTPTimeout,
	}

	rpc, err := solclient.New(server.cfg.RPCURL, httpClient)
	if err != nil {
		log.WithError(err).Fatal("Cannot create RPC client")
	}

	stats := stakewiz.New(server.cfg.StakewizAPIURL, httpClient)

	// Long polling needs its own client; HTTP_TIMEOUT would cut it short
	tg, err := notifications.NewTelegram(server.cfg.TelegramToken, "", nil)
	if err != nil {
		log.WithError(err).Fatal("Cannot connect to Telegram")
	}

	expirer := notifications.NewExpirer(tg, notifications.SystemClock{}, server.cfg.AutoDeleteAfter)
	dispatcher := notifications.NewDispatcher(tg, expirer)

	server.NotificationHandler = notifications.New(tg, server.cfg.NotifyChatIDs)

	cache := rewards.NewCache()

	server.Bot = bot.New(bot.Settings{
		Identity:              server.cfg.IdentityAddress,
		Vote:                  server.cfg.VoteAddress,
		Name:                  server.cfg.ValidatorName,
		SlotDuration:          server.cfg.SlotDuration,
		BalancesButton:        server.cfg.BalancesButton,
		DustFilter:            server.cfg.DustFilter,
		BlockFetchConcurrency: server.cfg.BlockFetchConcurrency,
	}, rpc, stats, dispatcher, cache)

	// Status server
	if server.cfg.StatusAddr != "" {
		server.WebServer = webserver.New(server.cfg.StatusAddr, version, cache, expirer)
		server.WebServer.Start(shutdownChannel, &wg)
	}

	ctx, ctxCancel := context.WithCancel(context.Background())
	go func() {
		<-shutdownChannel
		log.Warn("Shutting things down...")
		ctxCancel()
	}()

	server.Broadcast(fmt.Sprintf("solbot online (%s)", server.cfg.ValidatorName))

	// Blocks until shutdown or the update stream ends
	server.Run(ctx, tg.Events(ctx))
	shutdown()

	// Let in-flight actions reply, then remove everything still displayed
	server.Wait()
	expirer.Close()

	server.Broadcast("solbot shutting down")

	// Wait for threads to finish
	wg.Wait()

	closeLogging()

	os.Exit(0)
}

// setupCloseChannel returns a channel closed on SIGINT/SIGTERM, and a func
// closing it directly. Either may fire first.
func setupCloseChannel() (chan interface{}, func()) {

	// Create channels for signals
	signalChan := make(chan os.Signal, 1)
	closingChan := make(chan interface{})

	var once sync.Once
	closeFn := func() {
		once.Do(func() {
			close(closingChan)
		})
	}

	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-signalChan
		closeFn()
	}()

	return closingChan, closeFn
}

func (s *SolBotServer) parseArgs() {

	// Args
	flag.BoolVar(&s.logDebug, "debug", false, "Enable debug-level logging")
	flag.BoolVar(&s.logTrace, "trace", false, "Enable trace-level logging")

	flag.StringVar(&s.logFile, "logfile", "", "Also write logs to this file; \"auto\" names one after the start time")
	flag.StringVar(&s.envFile, "env", config.DefaultEnvFile, "Environment file to load before reading configuration")

	printVersion := flag.Bool("version", false, "Show version and exit")

	flag.Parse()

	// Handle print version and exit
	if *printVersion {
		log.Printf("solbot %s (%s)", version, commitHash)
		os.Exit(0)
	}
}
