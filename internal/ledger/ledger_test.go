package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTradeMovesBalance(t *testing.T) {
	l := New()
	_, err := l.Open("boss", map[string]float64{Money: 10000})
	require.NoError(t, err)
	_, err = l.Open("project", nil)
	require.NoError(t, err)

	tr, err := l.Trade("boss", "project", Money, 1000)
	require.NoError(t, err)
	assert.NotEmpty(t, tr.ID)
	assert.Equal(t, 0, tr.Turn)

	boss, _ := l.Balance("boss", Money)
	proj, _ := l.Balance("project", Money)
	assert.Equal(t, 9000.0, boss)
	assert.Equal(t, 1000.0, proj)
	assert.Len(t, l.Transfers(), 1)
}

func TestTradeAllowsOverdraft(t *testing.T) {
	l := New()
	_, _ = l.Open("boss", map[string]float64{Money: 20})
	_, _ = l.Open("expenses", nil)

	_, err := l.Trade("boss", "expenses", Money, 25)
	require.NoError(t, err)

	bal, _ := l.Balance("boss", Money)
	assert.Equal(t, -5.0, bal)
}

func TestTradeRejectsInvalid(t *testing.T) {
	l := New()
	_, _ = l.Open("a", map[string]float64{Money: 10})
	_, _ = l.Open("b", nil)

	tests := []struct {
		name     string
		src, dst string
		res      string
		amount   float64
		want     error
	}{
		{"unknown source", "x", "b", Money, 1, ErrUnknownAccount},
		{"unknown target", "a", "x", Money, 1, ErrUnknownAccount},
		{"negative amount", "a", "b", Money, -1, ErrInvalidAmount},
		{"empty resource", "a", "b", "", 1, ErrInvalidAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := l.Trade(tt.src, tt.dst, tt.res, tt.amount)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	bal, _ := l.Balance("a", Money)
	assert.Equal(t, 10.0, bal, "failed trades must not change balances")
	assert.Empty(t, l.Transfers())
}

func TestSelfTradeIsNoOp(t *testing.T) {
	l := New()
	_, _ = l.Open("a", map[string]float64{Money: 10})

	_, err := l.Trade("a", "a", Money, 5)
	require.NoError(t, err)

	bal, _ := l.Balance("a", Money)
	assert.Equal(t, 10.0, bal)
}

func TestOpenDuplicate(t *testing.T) {
	l := New()
	_, err := l.Open("a", nil)
	require.NoError(t, err)
	_, err = l.Open("a", nil)
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestTurnCounterStampsTransfers(t *testing.T) {
	l := New()
	_, _ = l.Open("a", map[string]float64{Money: 10})
	_, _ = l.Open("b", nil)

	assert.Equal(t, 1, l.CompleteTurn())
	assert.Equal(t, 2, l.CompleteTurn())

	tr, err := l.Trade("a", "b", Money, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, tr.Turn)
	assert.Equal(t, 2, l.TurnCount())
}

func TestAccountsKeepOpenOrder(t *testing.T) {
	l := New()
	for _, n := range []string{"boss", "project", "expenses"} {
		_, err := l.Open(n, nil)
		require.NoError(t, err)
	}
	var names []string
	for _, a := range l.Accounts() {
		names = append(names, a.Name)
	}
	assert.Equal(t, []string{"boss", "project", "expenses"}, names)
}
