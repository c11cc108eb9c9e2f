package main

import (
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/writer"
)

var logFile *os.File

func setupLogging(level string, logDebug, logTrace bool, logLocation string) {

	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:  true,
		DisableSorting: true,
	})

	if lvl, err := log.ParseLevel(level); err == nil {
		log.SetLevel(lvl)
	}

	if logDebug {
		log.SetLevel(log.DebugLevel)
	}

	if logTrace {
		log.SetLevel(log.TraceLevel)
	}

	if logLocation == "" {
		return
	}

	if logLocation == "auto" {
		cwd, err := os.Getwd()
		if err != nil {
			log.Fatalf("Failed to determine working directory: %s", err)
		}
		runID := time.Now().Format("solbot-2006-01-02-15-04-05")
		logLocation = filepath.Join(cwd, runID+".log")
	}

	var err error
	logFile, err = os.OpenFile(logLocation, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		log.Fatalf("Failed to open log file %s for output: %s", logLocation, err)
	}

	// Write everything to log file too
	log.AddHook(&writer.Hook{
		Writer:    logFile,
		LogLevels: log.AllLevels,
	})
}

func closeLogging() {
	if logFile == nil {
		return
	}
	if err := logFile.Close(); err != nil {
		log.WithError(err).Error("Unable to close log file")
	}
	logFile = nil
}
