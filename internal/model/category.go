package model

// CategoryUncategorized is used whenever no category is known.
const CategoryUncategorized = "Uncategorized"

// CategorySalary is the default category for income.
const CategorySalary = "Salary"

// DefaultCategories is the fixed set of categories offered for new entries.
var DefaultCategories = []string{
	"Food & Drink",
	"Groceries",
	"Transport",
	"Shopping",
	"Utilities",
	"Entertainment",
	"Health",
	"Travel",
	"Rent",
	CategorySalary,
}

// IsKnownCategory reports whether name is one of DefaultCategories or Uncategorized.
func IsKnownCategory(name string) bool {
	if name == CategoryUncategorized {
		return true
	}
	for _, c := range DefaultCategories {
		if c == name {
			return true
		}
	}
	return false
}
