// Package phase implementa a máquina de fases do ticker:
// SourceSelect -> MatchSelect -> LiveStream.
//
// Phase é uma união fechada (só os tipos deste pacote implementam a interface)
// e todas as transições passam por Machine.transition. O LiveStream é dono do
// handle do poller e do canal de updates; sair dele cancela o poller dentro da
// própria transição, antes de qualquer poller novo ser criado.
package phase

import (
	"github.com/radieske/wicketick/internal/ticker"
	"github.com/radieske/wicketick/internal/wicketick"
)

// Input é um evento de teclado já traduzido
type Input int

const (
	InputNone    Input = iota
	InputQuit          // q: encerra de qualquer fase
	InputSelect        // 1: avança com a seleção padrão
	InputRefresh       // r: refresh manual no LiveStream
)

// Phase é uma das três fases abaixo
type Phase interface {
	Name() string
	sealed()
}

// SourceSelect é a fase inicial, sem dados
type SourceSelect struct{}

func (*SourceSelect) Name() string { return "source-select" }
func (*SourceSelect) sealed()      {}

// MatchSelect guarda o source template esperando um identificador
type MatchSelect struct {
	Template wicketick.Source
	Notice   string
}

func (*MatchSelect) Name() string { return "match-select" }
func (*MatchSelect) sealed()      {}

// LiveStream é dono do Ticker, do poller e do canal por onde chegam os snapshots
type LiveStream struct {
	Ticker *ticker.Ticker
	Notice string

	handle    *ticker.Handle
	updates   <-chan wicketick.Snapshot
	candidate int // posição em Config.Candidates; -1 quando veio direto da CLI
}

func (*LiveStream) Name() string { return "live-stream" }
func (*LiveStream) sealed()      {}

// Handle expõe o poller da fase (somente leitura para UI e testes)
func (l *LiveStream) Handle() *ticker.Handle { return l.handle }
