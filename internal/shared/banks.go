package shared

import (
	"strings"

	"bank_reviews/internal/domain"
)

// Banks is the fixed registry of institutions the pipeline knows about.
// The reviews table keeps a foreign key against exactly this list.
var Banks = []domain.Bank{
	{ID: 1, Code: "CBE", Name: "Commercial Bank of Ethiopia", AppID: "com.cbe.mobilebanking"},
	{ID: 2, Code: "BOA", Name: "Bank of Abyssinia", AppID: "com.bankofabyssinia.mobilebanking"},
	{ID: 3, Code: "DASHEN", Name: "Dashen Bank", AppID: "com.dashenbank.scmobile"},
}

// BankCodes maps codes and full names (case-insensitive) to the canonical
// code, so collectors can hand us either form.
func BankCodes() map[string]string {
	m := make(map[string]string, len(Banks)*2)
	for _, b := range Banks {
		m[strings.ToLower(b.Code)] = b.Code
		m[strings.ToLower(b.Name)] = b.Code
	}
	return m
}
