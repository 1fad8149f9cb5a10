// Package ofx imports OFX/QFX bank and credit card statements.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/aclindsa/ofxgo"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Veraticus/smart-expense/internal/currency"
	"github.com/Veraticus/smart-expense/internal/model"
)

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	tagFixRegex   = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// Parser converts OFX statements into transactions in the base currency.
type Parser struct {
	rates *currency.RateTable
}

// NewParser creates a new OFX parser. A nil rate table keeps amounts as they are.
func NewParser(rates *currency.RateTable) *Parser {
	if rates == nil {
		rates = currency.NewRateTable(currency.DefaultBase, nil)
	}
	return &Parser{rates: rates}
}

// preprocessOFX fixes common formatting issues in OFX files.
func (p *Parser) preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")

	// SEVERITY must be upper case
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	// SGML files sometimes omit the closing bracket of a bare tag
	return tagFixRegex.ReplaceAllString(content, "$1>")
}

// ParseFile parses an OFX/QFX file and returns its transactions. Debits
// become expenses and credits become income; categories are left empty.
func (p *Parser) ParseFile(ctx context.Context, reader io.Reader) ([]model.Transaction, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var transactions []model.Transaction
	var bankStmts, ccStmts int

	for _, msg := range resp.Bank {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			bankStmts++
			transactions = append(transactions,
				p.convertList(stmt.BankTranList, string(stmt.BankAcctFrom.AcctID), stmt.CurDef.String())...)
		}
	}

	for _, msg := range resp.CreditCard {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			ccStmts++
			transactions = append(transactions,
				p.convertList(stmt.BankTranList, string(stmt.CCAcctFrom.AcctID), stmt.CurDef.String())...)
		}
	}

	slog.Info("Parsed OFX file",
		"total_transactions", len(transactions),
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	return transactions, nil
}

func (p *Parser) convertList(list *ofxgo.TransactionList, accountID, curDef string) []model.Transaction {
	if list == nil {
		return nil
	}

	// ofxgo reports a missing CURDEF as the ISO "no currency" code.
	if curDef == "XXX" {
		curDef = ""
	}

	transactions := make([]model.Transaction, 0, len(list.Transactions))
	for _, ofxTx := range list.Transactions {
		transactions = append(transactions, p.convertTransaction(ofxTx, accountID, curDef))
	}
	return transactions
}

// convertTransaction converts an OFX transaction to our model.
func (p *Parser) convertTransaction(ofxTx ofxgo.Transaction, accountID, curDef string) model.Transaction {
	// OFX uses negative amounts for debits
	signed, _ := ofxTx.TrnAmt.Float64()
	typ := model.TypeExpense
	if signed > 0 {
		typ = model.TypeIncome
	}

	amount, _ := p.rates.ToBase(decimal.NewFromFloat(signed).Abs(), curDef).Float64()
	description := p.extractMerchantName(ofxTx)

	return model.Transaction{
		ID:          transactionID(accountID, string(ofxTx.FiTID), ofxTx.DtPosted.Time, signed, description),
		Date:        ofxTx.DtPosted.Time,
		Description: description,
		Type:        typ,
		Amount:      amount,
	}
}

// transactionID is stable across re-imports of the same statement so saving
// a second time replaces rows instead of duplicating them.
func transactionID(accountID, fitID string, posted time.Time, amount float64, description string) string {
	if fitID != "" {
		return fmt.Sprintf("ofx-%s-%s", accountID, fitID)
	}
	key := fmt.Sprintf("%s|%s|%.2f|%s", accountID, posted.UTC().Format(time.RFC3339), amount, description)
	return "ofx-" + uuid.NewSHA1(uuid.NameSpaceOID, []byte(key)).String()
}

// extractMerchantName tries to get a clean merchant name from OFX data.
func (p *Parser) extractMerchantName(tx ofxgo.Transaction) string {
	// PAYEE is usually the cleanest merchant name
	if tx.Payee != nil && tx.Payee.Name != "" {
		return strings.TrimSpace(string(tx.Payee.Name))
	}

	name := string(tx.Name)

	// Sometimes MEMO has better merchant info
	if tx.Memo != "" && isGenericDescription(name) {
		name = string(tx.Memo)
	}

	name = strings.TrimSpace(name)

	prefixes := []string{
		"POS PURCHASE ",
		"PURCHASE AUTHORIZED ON ",
		"DEBIT CARD PURCHASE ",
		"ACH DEBIT ",
		"CHECK CARD ",
		"VISA PURCHASE ",
		"MC PURCHASE ",
		"DEBIT PURCHASE ",
	}

	for _, prefix := range prefixes {
		if strings.HasPrefix(strings.ToUpper(name), prefix) {
			name = name[len(prefix):]
			break
		}
	}

	// Strip a leading "MM/DD " date
	if len(name) > 5 && name[2] == '/' && name[5] == ' ' {
		name = strings.TrimSpace(name[6:])
	}

	return name
}

// isGenericDescription checks if a transaction name is too generic.
func isGenericDescription(name string) bool {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "DEBIT", "CREDIT", "PURCHASE", "PAYMENT", "POS TRANSACTION", "CARD PURCHASE":
		return true
	}
	return false
}
