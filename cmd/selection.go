package cmd

import (
	"fmt"
	"time"

	"github.com/episodl/episodl/extractor"
	"github.com/episodl/episodl/job"
	"github.com/episodl/episodl/key"
	"github.com/episodl/episodl/language"
	"github.com/episodl/episodl/limit"
	"github.com/episodl/episodl/ranges"
	"github.com/episodl/episodl/request"
	"github.com/episodl/episodl/settings"
	"github.com/episodl/episodl/video"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flag names shared by the commands that build a job.
const (
	flagType        = "type"
	flagLang        = "lang"
	flagTypeLang    = "type-lang"
	flagEpisodes    = "episodes"
	flagSeasons     = "seasons"
	flagUse         = "use"
	flagConcurrency = "concurrent-downloads"
	flagRetries     = "retries"
	flagWaitEvery   = "ddos-wait-episodes"
	flagWaitMs      = "ddos-wait-ms"
	flagMpv         = "mpv"
	flagOutput      = "output"
)

// selection holds the parsed values of the job flags of one command.
type selection struct {
	kind      video.Kind
	lang      language.Language
	shorthand video.Shorthand
	episodes  ranges.Selector
	seasons   ranges.Selector
	use       extractor.Selector

	concurrency *limit.Flag
	retries     *limit.Flag
	waitEvery   *limit.Flag
	waitMs      int
	mpv         bool
	output      string
}

// bindSelection registers the job flags on cmd and their conflicts.
func bindSelection(cmd *cobra.Command) *selection {
	s := &selection{
		concurrency: limit.NewFlag("5", limit.Inf),
		retries:     limit.NewFlag("5", limit.Inf),
		waitEvery:   limit.NewFlag("4", limit.Never),
	}

	flags := cmd.Flags()
	flags.Var(&s.kind, flagType, "Only download specific video type (raw, dub, sub)")
	flags.Var(&s.lang, flagLang, "Only download specific language")
	flags.VarP(&s.shorthand, flagTypeLang, "t", "Shorthand for language and video type, e.g. desub, jpdub, english")
	flags.VarP(&s.episodes, flagEpisodes, "e", "Only download specific episodes (unspecified, all or e.g. 1,3-5)")
	flags.VarP(&s.seasons, flagSeasons, "s", "Only download specific seasons (unspecified, all or e.g. 1,3-5)")
	flags.VarP(&s.use, flagUse, "u", "Use an extractor directly on the URL, auto-detected unless named")
	flags.Lookup(flagUse).NoOptDefVal = extractor.Auto
	flags.VarP(s.concurrency, flagConcurrency, "N", "Concurrent downloads")
	flags.VarP(s.retries, flagRetries, "r", "Number of download retries")
	flags.Var(s.waitEvery, flagWaitEvery, "Amount of requests before waiting")
	flags.IntVar(&s.waitMs, flagWaitMs, 60*1000, "The duration in milliseconds to wait")
	flags.BoolVar(&s.mpv, flagMpv, false, "Play in mpv instead of downloading")
	flags.StringVarP(&s.output, flagOutput, "o", ".", "Directory downloads are written to")

	lo.Must0(cmd.RegisterFlagCompletionFunc(flagLang, func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return lo.Map(language.Concrete(), func(l language.Language, _ int) string { return l.Long() }), cobra.ShellCompDirectiveNoFileComp
	}))
	lo.Must0(cmd.RegisterFlagCompletionFunc(flagType, func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"raw", "dub", "sub"}, cobra.ShellCompDirectiveNoFileComp
	}))

	cmd.MarkFlagsMutuallyExclusive(flagTypeLang, flagType)
	cmd.MarkFlagsMutuallyExclusive(flagTypeLang, flagLang)
	for _, other := range []string{flagType, flagLang, flagTypeLang, flagEpisodes, flagSeasons, flagConcurrency, flagWaitEvery, flagWaitMs} {
		cmd.MarkFlagsMutuallyExclusive(flagUse, other)
	}
	cmd.MarkFlagsMutuallyExclusive(flagMpv, flagConcurrency)
	cmd.MarkFlagsMutuallyExclusive(flagMpv, flagRetries)

	return s
}

// job resolves the flags of cmd into a job for url. Flags left at their
// defaults fall back to the configured download settings.
func (s *selection) job(cmd *cobra.Command, url string) (job.Job, error) {
	configured := func(flag string, f *limit.Flag, configKey string) (limit.Limit, error) {
		l := f.Limit
		if !cmd.Flags().Changed(flag) && viper.IsSet(configKey) {
			l = limit.Parse(viper.GetString(configKey), f.Sentinel)
		}
		if err := l.Err(); err != nil {
			return l, fmt.Errorf("--%s: %w", flag, err)
		}
		return l, nil
	}

	concurrency, err := configured(flagConcurrency, s.concurrency, key.DownloadConcurrency)
	if err != nil {
		return job.Job{}, err
	}

	retries, err := configured(flagRetries, s.retries, key.DownloadRetries)
	if err != nil {
		return job.Job{}, err
	}

	waitEvery, err := configured(flagWaitEvery, s.waitEvery, key.DownloadDDoSWaitEpisodes)
	if err != nil {
		return job.Job{}, err
	}

	waitMs := s.waitMs
	if !cmd.Flags().Changed(flagWaitMs) && viper.IsSet(key.DownloadDDoSWaitMs) {
		waitMs = viper.GetInt(key.DownloadDDoSWaitMs)
	}
	if waitMs < 0 {
		return job.Job{}, fmt.Errorf("--%s: must not be negative", flagWaitMs)
	}

	use := s.use
	if !cmd.Flags().Changed(flagUse) {
		use = extractor.AutoSelector()
	}

	return job.Job{
		URL:       url,
		Target:    video.Resolve(s.kind, s.lang, s.shorthand.Value),
		Request:   request.Resolve(s.episodes, s.seasons),
		Extractor: use,
		Settings: settings.Download{
			Concurrency:      concurrency,
			Retries:          retries,
			DDoSWaitEpisodes: waitEvery,
			DDoSWait:         time.Duration(waitMs) * time.Millisecond,
			Player:           s.mpv,
		},
		Output: s.output,
	}, nil
}
