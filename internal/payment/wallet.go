package payment

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrCancelled is returned when the user abandons the payment prompt.
var ErrCancelled = errors.New("payment cancelled")

// WalletProcessor asks the user to complete the token transfer in their own
// wallet and to paste the transaction signature back. The signature is
// recorded in the log but not verified here.
type WalletProcessor struct {
	token  string
	admin  string
	amount float64
	in     *bufio.Reader
	out    io.Writer
}

func NewWalletProcessor(token, admin string, amount float64, in *bufio.Reader, out io.Writer) *WalletProcessor {
	return &WalletProcessor{token: token, admin: admin, amount: amount, in: in, out: out}
}

func (p *WalletProcessor) TokenAddress() string { return p.token }
func (p *WalletProcessor) AdminAddress() string { return p.admin }
func (p *WalletProcessor) Amount() float64      { return p.amount }

// Pay prompts for the transfer and waits for a transaction signature. An
// empty line cancels.
func (p *WalletProcessor) Pay(ctx context.Context) error {
	fmt.Fprintf(p.out, "Send %v tokens (%s) to %s using your wallet.\n", p.amount, p.token, p.admin)
	fmt.Fprint(p.out, "Paste the transaction signature to confirm (empty line to cancel)\n> ")

	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	signature := strings.TrimSpace(line)
	if signature == "" {
		return ErrCancelled
	}

	fmt.Fprintf(p.out, "Payment confirmed, signature %s\n", signature)
	return nil
}
