package usecase

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/iamvkosarev/fintrack/internal/model"
	"go.uber.org/zap"
)

const (
	defaultCSVCategory        = "normal"
	defaultPositionalCategory = "Others"

	SuggestionNotEnoughData    = "Not enough data to generate insights"
	SuggestionLowEmergencyFund = "Emergency fund is low. Try saving at least 20%."
	SuggestionOverspending     = "Overspending detected. Reduce non-essential expenses."
	SuggestionGoodCashback     = "Good cashback usage. Redirect cashback to savings."
)

type TransactionStorage interface {
	AddTransactions(ctx context.Context, transactions ...model.Transaction) error
	ListTransactions(ctx context.Context, ownerEmail string) ([]model.Transaction, error)
}

type TransactionUsecaseDeps struct {
	TransactionStorage TransactionStorage
}

type TransactionUsecase struct {
	TransactionUsecaseDeps
	logger *zap.Logger
	now    func() time.Time
}

func NewTransactionUsecase(deps TransactionUsecaseDeps, logger *zap.Logger) *TransactionUsecase {
	return &TransactionUsecase{
		TransactionUsecaseDeps: deps,
		logger:                 logger,
		now:                    time.Now,
	}
}

// ExpenseInput mirrors the manual entry form. Amount is a pointer so that a
// missing amount can be told apart from zero.
type ExpenseInput struct {
	Date        string
	Description string
	Amount      *float64
	Category    string
	Type        string
}

func (t *TransactionUsecase) AddExpense(
	ctx context.Context,
	ownerEmail string,
	in ExpenseInput,
) (model.Transaction, error) {
	var missing []string
	if in.Amount == nil {
		missing = append(missing, "amount")
	}
	if strings.TrimSpace(in.Category) == "" {
		missing = append(missing, "category")
	}
	if strings.TrimSpace(in.Type) == "" {
		missing = append(missing, "type")
	}
	if len(missing) > 0 {
		return model.Transaction{}, fmt.Errorf("%w: %s", model.ErrMissingFields, strings.Join(missing, ", "))
	}

	transaction := model.Transaction{
		ID:          uuid.New(),
		OwnerEmail:  ownerEmail,
		Date:        in.Date,
		Description: in.Description,
		Amount:      *in.Amount,
		Category:    in.Category,
		Type:        model.TransactionType(in.Type),
		CreatedAt:   t.now().UTC(),
	}
	if err := t.TransactionStorage.AddTransactions(ctx, transaction); err != nil {
		return model.Transaction{}, fmt.Errorf("failed to add expense: %w", err)
	}
	return transaction, nil
}

// ImportCSV stores every data row of r and returns how many were inserted.
// The first row is a header. When it names the columns (date, description,
// amount, category, type) they are read by name, otherwise rows are read
// positionally as date,description,amount[,category] and rows with fewer than
// three values are skipped. A positional amount that does not parse is
// imported as zero.
func (t *TransactionUsecase) ImportCSV(ctx context.Context, ownerEmail string, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: %w", model.ErrInvalidCSV, err)
	}
	columns, named := csvColumns(header)

	now := t.now().UTC()
	var transactions []model.Transaction
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("%w: %w", model.ErrInvalidCSV, err)
		}
		line, _ := reader.FieldPos(0)

		var transaction model.Transaction
		if named {
			transaction, err = namedRecord(columns, record)
		} else {
			if len(record) < 3 {
				continue
			}
			var amountErr error
			transaction, amountErr = positionalRecord(record)
			if amountErr != nil {
				t.logger.Warn("csv amount kept as zero",
					zap.String("owner", ownerEmail),
					zap.Int("line", line),
					zap.Error(amountErr),
				)
			}
		}
		if err != nil {
			return 0, fmt.Errorf("%w: line %d: %w", model.ErrInvalidCSV, line, err)
		}
		transaction.ID = uuid.New()
		transaction.OwnerEmail = ownerEmail
		transaction.CreatedAt = now
		transactions = append(transactions, transaction)
	}

	if len(transactions) == 0 {
		return 0, nil
	}
	if err = t.TransactionStorage.AddTransactions(ctx, transactions...); err != nil {
		return 0, fmt.Errorf("failed to add imported transactions: %w", err)
	}
	t.logger.Info("csv imported",
		zap.String("owner", ownerEmail),
		zap.Int("records", len(transactions)),
	)
	return len(transactions), nil
}

func (t *TransactionUsecase) ListTransactions(ctx context.Context, ownerEmail string) ([]model.Transaction, error) {
	return t.TransactionStorage.ListTransactions(ctx, ownerEmail)
}

// WalletSummary sums amounts per wallet: categories containing "cashback" or
// "emergency" go to those wallets, everything else to the normal wallet.
func (t *TransactionUsecase) WalletSummary(ctx context.Context, ownerEmail string) (model.Wallets, error) {
	transactions, err := t.TransactionStorage.ListTransactions(ctx, ownerEmail)
	if err != nil {
		return model.Wallets{}, fmt.Errorf("failed to list transactions: %w", err)
	}
	var wallets model.Wallets
	for _, transaction := range transactions {
		category := strings.ToLower(transaction.Category)
		switch {
		case strings.Contains(category, "cashback"):
			wallets.Cashback += transaction.Amount
		case strings.Contains(category, "emergency"):
			wallets.Emergency += transaction.Amount
		default:
			wallets.Normal += transaction.Amount
		}
	}
	return wallets, nil
}

func Suggestions(wallets model.Wallets) []string {
	total := wallets.Total()
	if total <= 0 {
		return []string{SuggestionNotEnoughData}
	}

	suggestions := make([]string, 0, 3)
	if wallets.Emergency/total*100 < 20 {
		suggestions = append(suggestions, SuggestionLowEmergencyFund)
	}
	if wallets.Normal < 0 {
		suggestions = append(suggestions, SuggestionOverspending)
	}
	if wallets.Cashback > wallets.Normal*0.3 {
		suggestions = append(suggestions, SuggestionGoodCashback)
	}
	return suggestions
}

func csvColumns(header []string) (map[string]int, bool) {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	_, hasAmount := columns["amount"]
	return columns, hasAmount
}

func namedRecord(columns map[string]int, record []string) (model.Transaction, error) {
	value := func(name string) string {
		i, ok := columns[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}
	amount, err := parseAmount(value("amount"))
	if err != nil {
		return model.Transaction{}, err
	}
	category := value("category")
	if category == "" {
		category = defaultCSVCategory
	}
	transactionType := model.TransactionType(value("type"))
	if transactionType == "" {
		transactionType = model.TransactionTypeDebit
	}
	return model.Transaction{
		Date:        value("date"),
		Description: value("description"),
		Amount:      amount,
		Category:    category,
		Type:        transactionType,
	}, nil
}

// positionalRecord reads date,description,amount[,category]. An amount that
// does not parse is reported and left as zero so the row is still imported.
func positionalRecord(record []string) (model.Transaction, error) {
	amount, err := parseAmount(strings.TrimSpace(record[2]))
	category := defaultPositionalCategory
	if len(record) > 3 && strings.TrimSpace(record[3]) != "" {
		category = strings.TrimSpace(record[3])
	}
	return model.Transaction{
		Date:        strings.TrimSpace(record[0]),
		Description: strings.TrimSpace(record[1]),
		Amount:      amount,
		Category:    category,
		Type:        model.TransactionTypeDebit,
	}, err
}

func parseAmount(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	amount, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse amount %q: %w", s, err)
	}
	return amount, nil
}
