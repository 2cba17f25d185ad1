package admin

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"math"
	"strconv"

	"go.uber.org/zap"

	"vending-machine/console"
	"vending-machine/money"
	"vending-machine/service"
)

// Action is one entry of the administrator menu.
type Action int

const (
	ActionUpdateStock Action = iota + 1
	ActionUpdatePrices
	ActionRemoveMoney
	ActionAnalytics
	ActionReturnToCustomer
	ActionPowerOff
)

// Actions lists the menu in display order.
var Actions = []Action{
	ActionUpdateStock,
	ActionUpdatePrices,
	ActionRemoveMoney,
	ActionAnalytics,
	ActionReturnToCustomer,
	ActionPowerOff,
}

func (a Action) String() string {
	switch a {
	case ActionUpdateStock:
		return "Update stock"
	case ActionUpdatePrices:
		return "Update prices"
	case ActionRemoveMoney:
		return "Remove money"
	case ActionAnalytics:
		return "View analytics"
	case ActionReturnToCustomer:
		return "Return to customer menu"
	case ActionPowerOff:
		return "Power off"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// ParseAction maps menu input to an Action.
func ParseAction(s string) (Action, bool) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	a := Action(n)
	if a < ActionUpdateStock || a > ActionPowerOff {
		return 0, false
	}
	return a, true
}

// Outcome is how an administrator session ended.
type Outcome struct {
	PowerOff bool
}

// Session runs one administrator visit: the passcode check, then the menu
// until the operator returns to the customer menu or powers off.
type Session struct {
	svc      service.ServiceInterface
	prompt   *console.Prompter
	passcode string
	log      *zap.Logger
}

func NewSession(svc service.ServiceInterface, prompt *console.Prompter, passcode string, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{svc: svc, prompt: prompt, passcode: passcode, log: log}
}

// Run returns an error only when the console fails; store failures are
// reported to the operator and the menu carries on.
func (s *Session) Run(ctx context.Context) (Outcome, error) {
	code, err := s.prompt.Line("Please enter the administrator passcode: ")
	if err != nil {
		return Outcome{}, err
	}
	if subtle.ConstantTimeCompare([]byte(code), []byte(s.passcode)) != 1 {
		s.log.Warn("administrator passcode rejected")
		s.prompt.Println("Incorrect passcode. Returning to the customer menu.")
		return Outcome{}, nil
	}
	s.log.Info("administrator logged in")

	for {
		s.printMenu()
		line, err := s.prompt.Line("Selection: ")
		if err != nil {
			return Outcome{}, err
		}
		action, ok := ParseAction(line)
		if !ok {
			s.prompt.Printf("%q is not a valid option. Please select one of the options.\n", line)
			continue
		}

		switch action {
		case ActionUpdateStock:
			err = s.updateStock(ctx)
		case ActionUpdatePrices:
			err = s.updatePrices(ctx)
		case ActionRemoveMoney:
			err = s.removeMoney(ctx)
		case ActionAnalytics:
			err = s.viewAnalytics()
		case ActionReturnToCustomer:
			s.log.Info("administrator logged out")
			return Outcome{}, nil
		case ActionPowerOff:
			s.log.Info("power off requested")
			return Outcome{PowerOff: true}, nil
		}
		if err != nil {
			return Outcome{}, err
		}
	}
}

func (s *Session) printMenu() {
	s.prompt.Println()
	s.prompt.Println("Administrator menu")
	for _, a := range Actions {
		s.prompt.Printf("%d: %s\n", int(a), a)
	}
}

func (s *Session) updateStock(ctx context.Context) error {
	for i := 0; i < s.svc.Len(); i++ {
		p, err := s.svc.Product(i)
		if err != nil {
			return err
		}
		room := math.MaxInt64 - p.Quantity
		add, err := s.prompt.Int(
			fmt.Sprintf("%s has %d in stock. How many would you like to add? ", p.Name, p.Quantity),
			func(v int64) string {
				if msg := console.NonNegative(v); msg != "" {
					return msg
				}
				if v > room {
					return fmt.Sprintf("%s can take at most %d more.", p.Name, room)
				}
				return ""
			})
		if err != nil {
			return err
		}
		updated, err := s.svc.AddStock(ctx, i, add)
		if err != nil {
			s.reportFailure(p.Name, err)
			continue
		}
		s.prompt.Printf("%s now has %d in stock.\n", updated.Name, updated.Quantity)
	}
	return nil
}

func (s *Session) updatePrices(ctx context.Context) error {
	for i := 0; i < s.svc.Len(); i++ {
		p, err := s.svc.Product(i)
		if err != nil {
			return err
		}
		price, ok, err := s.prompt.OptionalInt(
			fmt.Sprintf("%s costs %s. Enter a new price in pence, or press enter to keep it: ", p.Name, money.Format(p.Price)),
			console.NonNegative)
		if err != nil {
			return err
		}
		if !ok {
			s.prompt.Printf("%s stays at %s.\n", p.Name, money.Format(p.Price))
			continue
		}
		updated, err := s.svc.SetPrice(ctx, i, price)
		if err != nil {
			s.reportFailure(p.Name, err)
			continue
		}
		s.prompt.Printf("%s now costs %s.\n", updated.Name, money.Format(updated.Price))
	}
	return nil
}

func (s *Session) removeMoney(ctx context.Context) error {
	balance := s.svc.Balance()
	s.prompt.Printf("The machine currently holds %s.\n", money.Format(balance))

	amount, err := s.prompt.Int("How much would you like to remove (in pence)? ", console.NonNegative)
	if err != nil {
		return err
	}

	remaining, err := s.svc.RemoveMoney(ctx, amount)
	switch {
	case errors.Is(err, service.ErrRemovalNotAllowed):
		s.prompt.Printf("Cannot remove %s: the amount must be less than %s.\n", money.Format(amount), money.Format(balance))
	case err != nil:
		s.reportFailure("the balance", err)
	default:
		s.prompt.Printf("Removed %s. The machine now holds %s.\n", money.Format(amount), money.Format(remaining))
	}
	return nil
}

func (s *Session) viewAnalytics() error {
	yes, err := s.prompt.YesNo("Would you like to view the sales analytics?")
	if err != nil || !yes {
		return err
	}
	s.prompt.Println()
	s.svc.Report().Render(s.prompt.Writer())
	return nil
}

func (s *Session) reportFailure(what string, err error) {
	s.log.Warn("administrator update failed", zap.String("target", what), zap.Error(err))
	s.prompt.Printf("Could not update %s: %v. Please try again later.\n", what, err)
}
