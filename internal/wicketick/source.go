package wicketick

import "fmt"

// SourceKind identifica a variante ativa de um Source
type SourceKind int

const (
	SourceRemote SourceKind = iota + 1 // partida no feed cricinfo
	SourceLocal                        // arquivo JSON local
	SourceRelay                        // snapshot corrente mantido pelo snapshot-relay (Redis)
)

func (k SourceKind) String() string {
	switch k {
	case SourceRemote:
		return "remote"
	case SourceLocal:
		return "local"
	case SourceRelay:
		return "relay"
	default:
		return "unknown"
	}
}

// ParseSourceKind converte o nome do subcomando da CLI
func ParseSourceKind(s string) (SourceKind, error) {
	switch s {
	case "remote":
		return SourceRemote, nil
	case "local":
		return SourceLocal, nil
	case "relay":
		return SourceRelay, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedSource, s)
}

// Source diz de onde vêm os dados. Só um dos campos de identificação vale,
// conforme Kind. MatchID/Path vazio só é aceito antes da seleção (template).
type Source struct {
	Kind    SourceKind
	MatchID string
	Path    string
}

func Remote(matchID string) Source { return Source{Kind: SourceRemote, MatchID: matchID} }

func Local(path string) Source { return Source{Kind: SourceLocal, Path: path} }

func Relay(matchID string) Source { return Source{Kind: SourceRelay, MatchID: matchID} }

// Concrete informa se o source já tem identificador e pode alimentar um Ticker.
func (s Source) Concrete() bool {
	switch s.Kind {
	case SourceRemote, SourceRelay:
		return s.MatchID != ""
	case SourceLocal:
		return s.Path != ""
	}
	return false
}

// Identifier retorna o match id ou o caminho, conforme a variante
func (s Source) Identifier() string {
	if s.Kind == SourceLocal {
		return s.Path
	}
	return s.MatchID
}

// WithIdentifier devolve uma cópia do template com o identificador escolhido.
func (s Source) WithIdentifier(id string) Source {
	if s.Kind == SourceLocal {
		s.Path = id
		return s
	}
	s.MatchID = id
	return s
}

// Key identifica o source de forma estável (chave do singleflight e das mensagens Kafka)
func (s Source) Key() string {
	return s.Kind.String() + ":" + s.Identifier()
}

func (s Source) String() string {
	if !s.Concrete() {
		return s.Kind.String() + " (no selection)"
	}
	return s.Key()
}
