package core

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ibanLengths holds the fixed IBAN length per supported country code.
var ibanLengths = map[string]int{
	"AD": 24, "AT": 20, "BE": 16, "CH": 21, "CZ": 24,
	"DE": 22, "DK": 18, "ES": 24, "FI": 18, "FR": 27,
	"GB": 22, "IE": 22, "IT": 27, "LU": 20, "NL": 18,
	"NO": 15, "PL": 28, "PT": 25, "SE": 24,
}

var (
	ibanCharsPattern  = regexp.MustCompile(`^[A-Z0-9]+$`)
	ibanFormatPattern = regexp.MustCompile(`^[A-Z]{2}[0-9]{2}[A-Z0-9]+$`)
	creditorIDPattern = regexp.MustCompile(`^[A-Z]{2}[0-9]{2}ZZZ[0-9A-Z]{11}$`)
	letterPattern     = regexp.MustCompile(`[a-zA-Z]`)
)

// IBAN is an immutable, validated account number. It is only ever constructed
// through ValidateIBAN; an invalid input never yields a partial value.
type IBAN struct {
	Raw         string
	Normalized  string
	CountryCode string
	CheckDigits string
	BBAN        string
}

// ValidateIBAN normalizes and validates a raw account number string. Checks
// run in a fixed order and short-circuit on the first failure.
func ValidateIBAN(raw string) (IBAN, error) {
	if strings.TrimSpace(raw) == "" {
		return IBAN{}, ErrIBANRequired
	}

	normalized := strings.ToUpper(strings.NewReplacer(" ", "", "-", "", "\t", "").Replace(raw))

	if !ibanCharsPattern.MatchString(normalized) {
		return IBAN{}, fmt.Errorf("%w: %q", ErrInvalidCharacters, raw)
	}
	if !ibanFormatPattern.MatchString(normalized) {
		return IBAN{}, fmt.Errorf("%w: %q", ErrInvalidFormat, normalized)
	}

	country := normalized[:2]
	expected, ok := ibanLengths[country]
	if !ok {
		return IBAN{}, fmt.Errorf("%w: %s", ErrUnsupportedCountry, country)
	}
	if len(normalized) != expected {
		return IBAN{}, fmt.Errorf("%w: %s IBAN must be %d characters, got %d",
			ErrWrongLength, country, expected, len(normalized))
	}

	if mod97(normalized[4:]+normalized[:4]) != 1 {
		return IBAN{}, fmt.Errorf("%w: %s", ErrInvalidChecksum, normalized)
	}

	return IBAN{
		Raw:         raw,
		Normalized:  normalized,
		CountryCode: country,
		CheckDigits: normalized[2:4],
		BBAN:        normalized[4:],
	}, nil
}

// mod97 reduces the rearranged IBAN modulo 97, mapping letters A-Z to 10-35.
// The numeric string is far too long for an int64, so the remainder is carried
// forward over chunks of at most 9 digits.
func mod97(rearranged string) int {
	var digits strings.Builder
	for _, c := range rearranged {
		if c >= 'A' && c <= 'Z' {
			digits.WriteString(strconv.Itoa(int(c-'A') + 10))
		} else {
			digits.WriteRune(c)
		}
	}

	s := digits.String()
	remainder := int64(0)
	for len(s) > 0 {
		take := 9
		if len(s) < take {
			take = len(s)
		}
		n, err := strconv.ParseInt(strconv.FormatInt(remainder, 10)+s[:take], 10, 64)
		if err != nil {
			return -1
		}
		remainder = n % 97
		s = s[take:]
	}

	return int(remainder)
}

// Format returns the normalized IBAN grouped in blocks of four, the way it is
// printed on bank statements: NL91 ABNA 0417 1643 00.
func (i IBAN) Format() string {
	var b strings.Builder
	for pos, c := range i.Normalized {
		if pos > 0 && pos%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(c)
	}
	return b.String()
}

func (i IBAN) String() string {
	return i.Normalized
}

// BankInfo identifies the bank behind an account for countries where the bank
// code is embedded in the BBAN.
type BankInfo struct {
	BankCode string
	BankName string
	BIC      string
}

// dutchBanks maps the 4-letter bank code at offset 4-8 of a Dutch IBAN.
var dutchBanks = map[string]BankInfo{
	"ABNA": {BankCode: "ABNA", BankName: "ABN AMRO", BIC: "ABNANL2A"},
	"INGB": {BankCode: "INGB", BankName: "ING", BIC: "INGBNL2A"},
	"RABO": {BankCode: "RABO", BankName: "Rabobank", BIC: "RABONL2U"},
	"TRIO": {BankCode: "TRIO", BankName: "Triodos Bank", BIC: "TRIONL2U"},
	"BUNQ": {BankCode: "BUNQ", BankName: "bunq", BIC: "BUNQNL2A"},
	"SNSB": {BankCode: "SNSB", BankName: "SNS Bank", BIC: "SNSBNL2A"},
	"ASNB": {BankCode: "ASNB", BankName: "ASN Bank", BIC: "ASNBNL21"},
	"KNAB": {BankCode: "KNAB", BankName: "Knab", BIC: "KNABNL2H"},
	"FVLB": {BankCode: "FVLB", BankName: "Van Lanschot", BIC: "FVLBNL22"},
}

// DeriveBankInfo looks up the bank behind a validated IBAN. It returns nil
// when the country or bank code is not recognized; it never fails.
func DeriveBankInfo(iban IBAN) *BankInfo {
	if iban.CountryCode != "NL" || len(iban.BBAN) < 4 {
		return nil
	}
	info, ok := dutchBanks[iban.BBAN[:4]]
	if !ok {
		return nil
	}
	return &info
}

// ValidateCreditorID checks a SEPA creditor identifier (incassant ID), e.g.
// NL13ZZZ12345678000: exactly 18 characters, country + check digits + ZZZ +
// 11-character national identifier.
func ValidateCreditorID(id string) error {
	normalized := strings.ToUpper(strings.ReplaceAll(id, " ", ""))
	if len(normalized) != 18 || !creditorIDPattern.MatchString(normalized) {
		return fmt.Errorf("%w: %q", ErrInvalidCreditorID, id)
	}
	return nil
}

// ValidateHolderName checks a bank account holder name against SEPA name
// rules: 2-70 characters, at least one letter, no markup.
func ValidateHolderName(name string) error {
	trimmed := strings.TrimSpace(name)
	if len(trimmed) < 2 || len(trimmed) > 70 {
		return fmt.Errorf("%w: must be 2-70 characters, got %d", ErrInvalidHolderName, len(trimmed))
	}
	if !letterPattern.MatchString(trimmed) {
		return fmt.Errorf("%w: must contain at least one letter", ErrInvalidHolderName)
	}
	if strings.ContainsAny(trimmed, "<>{}") || strings.Contains(strings.ToLower(trimmed), "script") {
		return fmt.Errorf("%w: contains markup", ErrInvalidHolderName)
	}
	return nil
}

// Creditor is the organization-level SEPA configuration: who collects, from
// which account, under which scheme registration. Configured once, immutable
// afterwards.
type Creditor struct {
	Name       string
	IBAN       IBAN
	BIC        string
	CreditorID string
}

// NewCreditor validates the organization configuration. The BIC is derived
// from the IBAN when left empty and the bank is known.
func NewCreditor(name, rawIBAN, bic, creditorID string) (Creditor, error) {
	if err := ValidateHolderName(name); err != nil {
		return Creditor{}, err
	}
	iban, err := ValidateIBAN(rawIBAN)
	if err != nil {
		return Creditor{}, fmt.Errorf("creditor IBAN: %w", err)
	}
	if err := ValidateCreditorID(creditorID); err != nil {
		return Creditor{}, err
	}
	if bic == "" {
		if info := DeriveBankInfo(iban); info != nil {
			bic = info.BIC
		}
	}
	return Creditor{
		Name:       strings.TrimSpace(name),
		IBAN:       iban,
		BIC:        bic,
		CreditorID: strings.ToUpper(strings.ReplaceAll(creditorID, " ", "")),
	}, nil
}
