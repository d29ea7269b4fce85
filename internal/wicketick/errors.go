package wicketick

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSelection indica uma ação que exige identificador concreto (ex: refresh sem match escolhido)
	ErrNoSelection = errors.New("no match selected")
	// ErrUnsupportedSource indica uma variante de source que a operação não suporta
	ErrUnsupportedSource = errors.New("unsupported source")
)

// Estágios de falha de fetch, também usados como label nas métricas
const (
	StageTransport = "transport" // rede indisponível, timeout
	StageStatus    = "status"    // resposta não-2xx
	StageDecode    = "decode"    // payload malformado
	StageIO        = "io"        // leitura de arquivo local / cache
)

// FetchError carrega o estágio em que o fetch falhou e o source envolvido
type FetchError struct {
	Stage  string
	Source Source
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %s: %v", e.Source, e.Stage, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// FetchStage extrai o estágio de um erro de fetch; erros desconhecidos viram "other".
func FetchStage(err error) string {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Stage
	}
	if errors.Is(err, ErrNoSelection) || errors.Is(err, ErrUnsupportedSource) {
		return "unsupported"
	}
	return "other"
}
