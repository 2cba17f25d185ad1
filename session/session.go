package session

import (
	"context"
	"errors"
	"strconv"

	"go.uber.org/zap"

	"vending-machine/admin"
	"vending-machine/console"
	"vending-machine/model"
	"vending-machine/money"
	"vending-machine/service"
)

// Loop is the customer-facing control loop. It is the only caller of the
// service on the console side and ends only through the administrator's
// power-off action (or when the console input ends).
type Loop struct {
	svc      service.ServiceInterface
	prompt   *console.Prompter
	passcode string
	log      *zap.Logger
}

func New(svc service.ServiceInterface, prompt *console.Prompter, passcode string, log *zap.Logger) *Loop {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loop{svc: svc, prompt: prompt, passcode: passcode, log: log}
}

// Run serves customers until power-off. It returns io.EOF if the console
// input is exhausted first.
func (l *Loop) Run(ctx context.Context) error {
	l.prompt.Println("Starting Vending Machine. Welcome!")
	for {
		powerOff, err := l.serve(ctx)
		if err != nil {
			return err
		}
		if powerOff {
			l.prompt.Println("Vending Machine Powering Down. Goodbye!")
			return nil
		}
	}
}

// serve handles one customer visit and reports whether the machine should
// power off.
func (l *Loop) serve(ctx context.Context) (bool, error) {
	l.prompt.Println()
	l.prompt.Println("Welcome to the Vending Machine")
	if err := l.prompt.WaitEnter("Please press enter to start"); err != nil {
		return false, err
	}

	n := l.svc.Len()
	l.prompt.Println("What would you like today?")
	l.prompt.Printf("Please enter a number between 0 and %d to choose your selection\n", n)
	for i, p := range l.svc.Products() {
		l.prompt.Printf("%d: %s\n", i, p.Describe())
	}
	l.prompt.Printf("%d: Administrator\n", n)

	for {
		line, err := l.prompt.Line("Selection: ")
		if err != nil {
			return false, err
		}
		idx, err := strconv.Atoi(line)
		if err != nil {
			l.prompt.Printf("%s is not a valid input. Please select one of the options.\n", line)
			continue
		}
		if idx == n {
			outcome, err := admin.NewSession(l.svc, l.prompt, l.passcode, l.log).Run(ctx)
			return outcome.PowerOff, err
		}

		p, err := l.svc.Select(idx)
		if err != nil {
			l.rejectSelection(line, idx, err)
			continue
		}
		return false, l.dispense(ctx, idx, p)
	}
}

func (l *Loop) rejectSelection(line string, idx int, err error) {
	if errors.Is(err, service.ErrOutOfStock) {
		if p, perr := l.svc.Product(idx); perr == nil {
			l.prompt.Printf("Apologies %s is currently out of stock.\n", p.Name)
			return
		}
	}
	l.prompt.Printf("%s is not a valid input. Please select one of the options.\n", line)
}

func (l *Loop) dispense(ctx context.Context, idx int, p model.Product) error {
	l.prompt.Printf("You have chosen %s\n", p.Name)
	l.prompt.Printf("That will be %s please\n", money.Format(p.Price))
	if err := l.prompt.WaitEnter("Please press enter to insert the money"); err != nil {
		return err
	}

	receipt, err := l.svc.Dispense(ctx, idx)
	switch {
	case err == nil:
		l.prompt.Printf("Dispensing %s\n", p.Name)
		l.prompt.Printf("Receipt %s: %s, paid %s.\n", receipt.ID, receipt.Product, money.Format(receipt.PricePaid))
		l.prompt.Println("Thank you for using the vending machine today!")
	case service.IsTxKind(err, service.LedgerAppendFailed):
		l.prompt.Printf("Dispensing %s\n", p.Name)
		l.prompt.Println("Thank you for using the vending machine today!")
		l.prompt.Println("Notice for staff: this sale was not added to the machine balance. Please reconcile the balance manually.")
	case service.IsTxKind(err, service.PersistFailed):
		l.prompt.Printf("Sorry, %s could not be dispensed right now. Your money has been returned.\n", p.Name)
	case errors.Is(err, service.ErrInvalidSelection):
		l.prompt.Printf("Apologies %s is no longer available.\n", p.Name)
	default:
		l.log.Error("dispense failed", zap.String("product", p.Name), zap.Error(err))
		l.prompt.Printf("Sorry, %s could not be dispensed right now. Your money has been returned.\n", p.Name)
	}
	return nil
}
