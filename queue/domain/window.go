package domain

// Camada de domínio da fila com limite por janela.
//
// Regra: no máximo Max admissões em qualquer intervalo [t, t+Duration).
// A janela guarda os instantes das últimas admissões (no máximo Max) e o
// início efetivo dela é a admissão mais antiga ainda dentro do intervalo.

import "time"

// Window é o contador de admissões da janela deslizante.
//
// Invariante: 0 <= Admitted() <= Max.
type Window struct {
	Max      int
	Duration time.Duration

	// admissões em ordem crescente; len(admissions) <= Max
	admissions []time.Time
}

func NewWindow(max int, d time.Duration) Window {
	if max < 1 {
		max = 1
	}
	return Window{Max: max, Duration: d, admissions: make([]time.Time, 0, max)}
}

// Start é o início da janela atual (admissão mais antiga retida).
// Zero quando nenhuma admissão está dentro da janela.
func (w Window) Start() time.Time {
	if len(w.admissions) == 0 {
		return time.Time{}
	}
	return w.admissions[0]
}

// Admitted é quantas admissões ainda contam contra o limite.
func (w Window) Admitted() int { return len(w.admissions) }

// Remaining é quantas admissões ainda cabem agora (sem considerar expiração).
func (w Window) Remaining() int { return w.Max - len(w.admissions) }

// Expire descarta admissões com now - admissão >= Duration.
func (w *Window) Expire(now time.Time) {
	n := 0
	for n < len(w.admissions) && now.Sub(w.admissions[n]) >= w.Duration {
		n++
	}
	if n > 0 {
		w.admissions = append(w.admissions[:0], w.admissions[n:]...)
	}
}

// Admit tenta admitir uma chamada em now.
//
// Se a janela está cheia, retorna ok=false e quanto falta para a admissão mais antiga
// sair da janela; nesse caso nada é alterado além da expiração.
func (w *Window) Admit(now time.Time) (wait time.Duration, ok bool) {
	w.Expire(now)
	if len(w.admissions) >= w.Max {
		return w.admissions[0].Add(w.Duration).Sub(now), false
	}
	w.admissions = append(w.admissions, now)
	return 0, true
}
