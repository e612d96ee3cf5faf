package cmd

import (
	"time"

	"github.com/episodl/episodl/browser"
	"github.com/episodl/episodl/download"
	"github.com/episodl/episodl/extension"
	"github.com/episodl/episodl/extractor"
	"github.com/episodl/episodl/job"
	"github.com/episodl/episodl/key"
	"github.com/episodl/episodl/network"
	"github.com/episodl/episodl/player"
	"github.com/episodl/episodl/where"
	"github.com/spf13/viper"
)

func newExtensionManager(dataDir string) *extension.Manager {
	m := extension.New(
		dataDir,
		viper.GetString(key.ExtensionKeyword),
		extension.NewGitHubFeed(network.Client),
		download.NewHTTP(network.ForDownloads()),
	)
	m.Timeout = time.Duration(viper.GetInt(key.ExtensionTimeout)) * time.Second
	return m
}

func newProvisioner(config browser.Config) *browser.Provisioner {
	var ext *extension.Manager
	if viper.GetBool(key.ExtensionEnable) {
		ext = newExtensionManager(config.DataDir)
	}

	platform := browser.NewChromeForTesting(where.Browsers(), network.Client, download.NewHTTP(network.ForDownloads()))
	return browser.NewProvisioner(config, platform, ext, network.Client)
}

func newRunner() *job.Runner {
	registry := extractor.NewRegistry(
		extractor.Direct{},
		extractor.NewPage(newProvisioner(browser.ConfigFromViper())),
	)

	return &job.Runner{
		Registry:   registry,
		Downloader: download.NewHTTP(network.ForDownloads()),
		Player:     player.NewMPV(),
		Backoff:    time.Second,
	}
}
