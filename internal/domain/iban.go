package domain

import (
	"strconv"
	"strings"
)

const (
	// IBANLength is the length of every generated IBAN.
	IBANLength = 28

	// ibanIdentityWidth is the room shared by account id, zero padding and customer id.
	ibanIdentityWidth = 12
)

// GenerateIBAN builds the synthetic IBAN
// country_code + bank_number + subaccount + account_id + zeros + customer_id,
// padding with zeros so that the last three parts take exactly 12 characters.
// The result is not checked against the ISO 13616 checksum.
func GenerateIBAN(param Parameter, subaccount string, accountID, customerID int64) (string, error) {
	account := strconv.FormatInt(accountID, 10)
	customer := strconv.FormatInt(customerID, 10)

	padding := ibanIdentityWidth - len(account) - len(customer)
	if padding < 0 {
		return "", ErrIBANLength
	}

	var b strings.Builder
	b.Grow(IBANLength)
	b.WriteString(param.CountryCode)
	b.WriteString(param.BankNumber)
	b.WriteString(subaccount)
	b.WriteString(account)
	b.WriteString(strings.Repeat("0", padding))
	b.WriteString(customer)

	iban := b.String()
	if len(iban) != IBANLength {
		return "", ErrIBANLength
	}
	return iban, nil
}
