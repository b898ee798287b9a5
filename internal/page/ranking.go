package page

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/DoyleJ11/waitlist/pkg/types"
)

const (
	MsgNoRankings    = "No rankings available"
	MsgRankingsError = "Error loading rankings"
)

type RankingLoader struct {
	api  API
	view RankingView
	log  *zap.Logger
}

func NewRankingLoader(api API, view RankingView, log *zap.Logger) *RankingLoader {
	if log == nil {
		log = zap.NewNop()
	}
	return &RankingLoader{api: api, view: view, log: log}
}

// Load fetches the ranking list once and renders it. The returned error is the
// failure already shown in the table, if any; callers may ignore it.
func (l *RankingLoader) Load(ctx context.Context) error {
	entries, err := l.api.Rankings(ctx)
	if err != nil {
		l.log.Error("error fetching rankings", zap.Error(err))
		l.view.SetNotice(MsgRankingsError, true)
		return err
	}

	RenderRankings(l.view, entries)
	return nil
}

// RenderRankings replaces the table contents with entries, or with the empty
// notice when there are none.
func RenderRankings(view RankingView, entries []types.RankingEntry) {
	view.ClearRows()
	if len(entries) == 0 {
		view.SetNotice(MsgNoRankings, false)
		return
	}

	for _, e := range entries {
		view.AppendRow([]string{
			strconv.Itoa(e.Position),
			e.Name,
			e.Email,
			e.ReferralCode,
			strconv.Itoa(e.Referred()),
		})
	}
}
