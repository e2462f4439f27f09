// Package sequence allocates the shop's human-readable document ids. Numbers
// are derived from what is already in the worksheets (max existing sequence
// plus one), so the sheet stays the single source of truth and ids survive
// restarts. A process-wide mutex serializes allocation; the shop runs one
// instance, and the mutex closes the read-then-format race between two
// concurrent checkouts.
package sequence

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dmayasari/optikpos-backend/pkg/sheets"
)

// Worksheets names the sheets the generator scans.
type Worksheets struct {
	Transactions     string
	Payments         string
	Orders           string
	OrderPayments    string
	TransactionIDCol string
	PaymentIDCol     string
}

// Generator allocates ids. Safe for concurrent use.
type Generator struct {
	mu     sync.Mutex
	store  sheets.Store
	sheets Worksheets
	prefix string // in-town, "OM"
	outpfx string // out-of-town, "OMSKW"
	loc    *time.Location
	now    func() time.Time
}

func NewGenerator(store sheets.Store, ws Worksheets, prefix, outOfTownPrefix string, loc *time.Location) (*Generator, error) {
	if store == nil {
		return nil, fmt.Errorf("store required")
	}
	if loc == nil {
		loc = time.Local
	}
	if ws.TransactionIDCol == "" {
		ws.TransactionIDCol = "id_transaksi"
	}
	if ws.PaymentIDCol == "" {
		ws.PaymentIDCol = "id_pembayaran"
	}
	return &Generator{
		store:  store,
		sheets: ws,
		prefix: prefix,
		outpfx: outOfTownPrefix,
		loc:    loc,
		now:    time.Now,
	}, nil
}

// WithClock overrides the time source. Test hook.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// NextTransactionID allocates the next in-town sale id,
// PREFIX/T/NNN/DD-MM/YYYY.
func (g *Generator) NextTransactionID(ctx context.Context) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	seq, err := g.maxSlashSequence(ctx, g.sheets.Transactions, g.sheets.TransactionIDCol, g.prefix+"/T/")
	if err != nil {
		return "", err
	}
	now := g.now().In(g.loc)
	return fmt.Sprintf("%s/T/%03d/%s/%s", g.prefix, seq+1, now.Format("02-01"), now.Format("2006")), nil
}

// NextPaymentID allocates the next in-town payment id,
// PREFIX/P/NNN/DD-MM/YYYY.
func (g *Generator) NextPaymentID(ctx context.Context) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	seq, err := g.maxSlashSequence(ctx, g.sheets.Payments, g.sheets.PaymentIDCol, g.prefix+"/P/")
	if err != nil {
		return "", err
	}
	now := g.now().In(g.loc)
	return fmt.Sprintf("%s/P/%03d/%s/%s", g.prefix, seq+1, now.Format("02-01"), now.Format("2006")), nil
}

// NextOrderID allocates the next out-of-town order id,
// OUTPREFIX/CC/NNN/DD-MM-YYYY where CC is the destination code. The date
// part is the pickup date, not the entry date.
func (g *Generator) NextOrderID(ctx context.Context, destinationCode string, pickup time.Time) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	re := regexp.MustCompile("^" + regexp.QuoteMeta(g.outpfx) + `/\d+/(\d+)/`)
	seq, err := g.maxRegexpSequence(ctx, g.sheets.Orders, g.sheets.TransactionIDCol, re)
	if err != nil {
		return "", err
	}
	if pickup.IsZero() {
		pickup = g.now()
	}
	return fmt.Sprintf("%s/%s/%03d/%s", g.outpfx, destinationCode, seq+1, pickup.In(g.loc).Format("02-01-2006")), nil
}

// NextOrderPaymentID allocates the next out-of-town payment id,
// OUTPREFIX/P/CC/NNN/DD-MM-YYYY.
func (g *Generator) NextOrderPaymentID(ctx context.Context, destinationCode string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	re := regexp.MustCompile("^" + regexp.QuoteMeta(g.outpfx) + `/P/\d+/(\d+)/`)
	seq, err := g.maxRegexpSequence(ctx, g.sheets.OrderPayments, g.sheets.PaymentIDCol, re)
	if err != nil {
		return "", err
	}
	now := g.now().In(g.loc)
	return fmt.Sprintf("%s/P/%s/%03d/%s", g.outpfx, destinationCode, seq+1, now.Format("02-01-2006")), nil
}

// maxSlashSequence scans a worksheet column for ids carrying the given
// prefix and returns the highest slash-delimited sequence number (third
// segment). Malformed ids are skipped; an empty worksheet yields zero.
func (g *Generator) maxSlashSequence(ctx context.Context, worksheet, column, prefix string) (int, error) {
	table, err := g.store.ReadAllRows(ctx, worksheet)
	if err != nil {
		return 0, err
	}
	max := 0
	for _, r := range table.Rows {
		id := strings.TrimSpace(r[column])
		if !strings.HasPrefix(id, prefix) {
			continue
		}
		parts := strings.Split(id, "/")
		if len(parts) < 3 {
			continue
		}
		n, err := strconv.Atoi(parts[2])
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return max, nil
}

// maxRegexpSequence scans a worksheet column and returns the highest
// sequence captured by the pattern's first group.
func (g *Generator) maxRegexpSequence(ctx context.Context, worksheet, column string, re *regexp.Regexp) (int, error) {
	table, err := g.store.ReadAllRows(ctx, worksheet)
	if err != nil {
		return 0, err
	}
	max := 0
	for _, r := range table.Rows {
		m := re.FindStringSubmatch(strings.TrimSpace(r[column]))
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return max, nil
}

// NextCustomerID derives a new customer id, PREFIXNNN, from the current row
// count of the customer worksheet.
func (g *Generator) NextCustomerID(ctx context.Context, customerWorksheet string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	table, err := g.store.ReadAllRows(ctx, customerWorksheet)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%03d", g.prefix, len(table.Rows)+1), nil
}
