package admin

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vending-machine/console"
	"vending-machine/service"
	"vending-machine/store"
)

const passcode = "2468"

func newSession(t *testing.T, input string, ledger ...int64) (*Session, *service.Service, *store.MemoryStore, *bytes.Buffer) {
	t.Helper()
	ms := store.NewMemoryStore([]store.ProductRow{
		{Name: "A", Quantity: "1", Price: "100", UnitsSold: "0", Income: "0"},
		{Name: "B", Quantity: "0", Price: "200", UnitsSold: "5", Income: "1000"},
	}, ledger...)
	svc, err := service.Open(context.Background(), ms, service.Options{})
	require.NoError(t, err)

	var out bytes.Buffer
	return NewSession(svc, console.New(strings.NewReader(input), &out), passcode, nil), svc, ms, &out
}

func lines(l ...string) string { return strings.Join(l, "\n") + "\n" }

func TestWrongPasscodeReturnsImmediately(t *testing.T) {
	s, _, _, out := newSession(t, lines("0000", "6"))

	outcome, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.False(t, outcome.PowerOff)
	assert.Contains(t, out.String(), "Incorrect passcode")
	assert.NotContains(t, out.String(), "Administrator menu", "no retry and no menu")
}

func TestPowerOffAndReturn(t *testing.T) {
	s, _, _, _ := newSession(t, lines(passcode, "6"))
	outcome, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, outcome.PowerOff)

	s, _, _, _ = newSession(t, lines(passcode, "5"))
	outcome, err = s.Run(context.Background())
	require.NoError(t, err)
	assert.False(t, outcome.PowerOff)
}

func TestUnknownActionReprompts(t *testing.T) {
	s, _, _, out := newSession(t, lines(passcode, "9", "banana", "5"))

	_, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Contains(t, out.String(), `"9" is not a valid option`)
	assert.Contains(t, out.String(), `"banana" is not a valid option`)
	assert.Equal(t, 3, strings.Count(out.String(), "Administrator menu"))
}

func TestUpdateStockAddsPerProduct(t *testing.T) {
	s, svc, ms, out := newSession(t, lines(passcode, "1", "two", "2", "3", "5"))

	_, err := s.Run(context.Background())
	require.NoError(t, err)

	a, _ := svc.Product(0)
	b, _ := svc.Product(1)
	assert.Equal(t, int64(3), a.Quantity, "quantity is added, not set")
	assert.Equal(t, int64(3), b.Quantity)
	assert.Equal(t, "3", ms.Rows()[0].Quantity)
	assert.Equal(t, "3", ms.Rows()[1].Quantity)
	assert.Contains(t, out.String(), `"two" is not a whole number`)
}

func TestUpdateStockRepromptsPastMaximum(t *testing.T) {
	s, svc, ms, out := newSession(t, lines(passcode, "1", "9223372036854775807", "2", "0", "5"))

	_, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.Contains(t, out.String(), "A can take at most 9223372036854775806 more.")
	a, _ := svc.Product(0)
	assert.Equal(t, int64(3), a.Quantity)
	assert.Equal(t, "3", ms.Rows()[0].Quantity)
}

func TestUpdateStockFailureAbortsOnlyThatProduct(t *testing.T) {
	s, svc, ms, out := newSession(t, lines(passcode, "1", "4", "4", "5"))
	ms.FailWrite = func(r store.ProductRow) error {
		if r.Name == "A" {
			return errors.New("quota exceeded")
		}
		return nil
	}

	_, err := s.Run(context.Background())
	require.NoError(t, err)

	a, _ := svc.Product(0)
	b, _ := svc.Product(1)
	assert.Equal(t, int64(1), a.Quantity)
	assert.Equal(t, int64(4), b.Quantity)
	assert.Contains(t, out.String(), "Could not update A")
}

func TestUpdatePrices(t *testing.T) {
	s, svc, ms, out := newSession(t, lines(passcode, "2", "150", "", "5"))

	_, err := s.Run(context.Background())
	require.NoError(t, err)

	a, _ := svc.Product(0)
	b, _ := svc.Product(1)
	assert.Equal(t, int64(150), a.Price)
	assert.Equal(t, int64(200), b.Price, "empty answer keeps the price")
	assert.Equal(t, "150", ms.Rows()[0].Price)
	assert.Contains(t, out.String(), "B stays at £2.00.")
}

func TestRemoveMoney(t *testing.T) {
	s, svc, ms, out := newSession(t, lines(passcode, "3", "500", "3", "499", "5"), 500)

	_, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.Contains(t, out.String(), "The machine currently holds £5.00.")
	assert.Contains(t, out.String(), "must be less than £5.00")
	assert.Contains(t, out.String(), "The machine now holds £0.01.")
	assert.Equal(t, int64(1), svc.Balance())
	assert.Equal(t, []int64{500, 1}, ms.Ledger())
}

func TestViewAnalyticsGate(t *testing.T) {
	s, _, _, out := newSession(t, lines(passcode, "4", "n", "4", "y", "5"), 1000)

	_, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(out.String(), "Most profitable product: B"))
	assert.Contains(t, out.String(), "A is low on stock: 1 left.")
	assert.Contains(t, out.String(), "B is OUT OF STOCK.")
}

func TestConsoleEOFPropagates(t *testing.T) {
	s, _, _, _ := newSession(t, lines(passcode, "1"))

	_, err := s.Run(context.Background())
	assert.ErrorIs(t, err, io.EOF)
}

func TestParseAction(t *testing.T) {
	for _, a := range Actions {
		got, ok := ParseAction(strconv.Itoa(int(a)))
		assert.True(t, ok)
		assert.Equal(t, a, got)
	}
	for _, s := range []string{"0", "7", "-1", "", "x"} {
		_, ok := ParseAction(s)
		assert.False(t, ok, s)
	}
	assert.Len(t, Actions, 6)
	assert.Equal(t, "Power off", ActionPowerOff.String())
}
