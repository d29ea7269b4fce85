package cricinfo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/radieske/wicketick/internal/wicketick"
)

// DefaultBaseURL é o host público do feed; o match-simulator expõe o mesmo path.
const DefaultBaseURL = "https://www.espncricinfo.com"

// maxBody limita o payload lido do feed
const maxBody = 8 << 20

// Client busca o resumo de partidas no feed do cricinfo
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Now     func() time.Time
}

// New cria um client; timeout <= 0 deixa o limite para o contexto do chamador.
func New(base string, timeout time.Duration) *Client {
	if base == "" {
		base = DefaultBaseURL
	}
	return &Client{
		BaseURL: strings.TrimRight(base, "/"),
		HTTP:    &http.Client{Timeout: timeout},
		Now:     time.Now,
	}
}

// MatchURL monta o endpoint JSON de uma partida
func (c *Client) MatchURL(matchID string) string {
	return fmt.Sprintf("%s/matches/engine/match/%s.json", c.BaseURL, url.PathEscape(matchID))
}

// MatchSummary baixa e normaliza o estado atual de uma partida
func (c *Client) MatchSummary(ctx context.Context, matchID string) (wicketick.Snapshot, error) {
	src := wicketick.Remote(matchID)
	if matchID == "" {
		return wicketick.Snapshot{}, wicketick.ErrNoSelection
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.MatchURL(matchID), nil)
	if err != nil {
		return wicketick.Snapshot{}, &wicketick.FetchError{Stage: wicketick.StageTransport, Source: src, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.HTTP.Do(req)
	if err != nil {
		return wicketick.Snapshot{}, &wicketick.FetchError{Stage: wicketick.StageTransport, Source: src, Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return wicketick.Snapshot{}, &wicketick.FetchError{
			Stage:  wicketick.StageStatus,
			Source: src,
			Err:    fmt.Errorf("http %d", res.StatusCode),
		}
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBody))
	if err != nil {
		return wicketick.Snapshot{}, &wicketick.FetchError{Stage: wicketick.StageTransport, Source: src, Err: err}
	}

	snap, err := decode(body)
	if err != nil {
		return wicketick.Snapshot{}, &wicketick.FetchError{Stage: wicketick.StageDecode, Source: src, Err: err}
	}
	snap.FetchedAt = c.now()
	return snap, nil
}

// LoadMatchSummary lê um snapshot salvo em disco (mesmo formato do feed;
// a lista de times é opcional e sem ela os nomes viram "Unknown").
func (c *Client) LoadMatchSummary(path string) (wicketick.Snapshot, error) {
	src := wicketick.Local(path)
	if path == "" {
		return wicketick.Snapshot{}, wicketick.ErrNoSelection
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return wicketick.Snapshot{}, &wicketick.FetchError{Stage: wicketick.StageIO, Source: src, Err: err}
	}
	snap, err := decode(data)
	if err != nil {
		return wicketick.Snapshot{}, &wicketick.FetchError{Stage: wicketick.StageDecode, Source: src, Err: err}
	}
	snap.FetchedAt = c.now()
	return snap, nil
}

func (c *Client) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}
