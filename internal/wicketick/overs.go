package wicketick

import (
	"strconv"
	"strings"
)

// Overs representa overs completos + bolas da over corrente.
// SpareBalls deveria ficar entre 0 e 5, mas o parser não valida o intervalo.
type Overs struct {
	FullOvers  uint32
	SpareBalls uint32
}

// ParseOvers interpreta "<overs>,<bolas>", "<overs>.<bolas>" ou "<overs>".
// Entrada malformada vira Overs{} sem erro (compatibilidade com o feed).
func ParseOvers(s string) Overs {
	s = strings.TrimSpace(s)
	sep := strings.IndexAny(s, ",.")
	if sep < 0 {
		full, ok := parseCount(s)
		if !ok {
			return Overs{}
		}
		return Overs{FullOvers: full}
	}

	full, ok := parseCount(s[:sep])
	if !ok {
		return Overs{}
	}
	// um segundo separador ("1,2,3") cai aqui como número inválido
	balls, ok := parseCount(s[sep+1:])
	if !ok {
		return Overs{}
	}
	return Overs{FullOvers: full, SpareBalls: balls}
}

func parseCount(s string) (uint32, bool) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(n), true
}

// String formata "12" quando não há bolas extras, senão "12.3".
func (o Overs) String() string {
	if o.SpareBalls == 0 {
		return strconv.FormatUint(uint64(o.FullOvers), 10)
	}
	return strconv.FormatUint(uint64(o.FullOvers), 10) + "." + strconv.FormatUint(uint64(o.SpareBalls), 10)
}

// MarshalText serializa no mesmo formato de exibição (usado no JSON dos eventos).
func (o Overs) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText aplica a mesma política tolerante do ParseOvers.
func (o *Overs) UnmarshalText(b []byte) error {
	*o = ParseOvers(string(b))
	return nil
}
