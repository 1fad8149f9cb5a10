package classification

// DefaultPatterns returns the built-in merchant patterns for the default categories.
func DefaultPatterns() []Pattern {
	return []Pattern{
		// Income - highest priority
		{
			Name:       "Payroll",
			Category:   "Salary",
			Regex:      `\b(DIRECT\s*DEP|DIRECTDEP|PAYROLL|SALARY|WAGES|PAYCHECK)\b`,
			Priority:   100,
			Confidence: 0.95,
		},

		// Housing and bills
		{
			Name:       "Rent",
			Category:   "Rent",
			Regex:      `\b(RENT|LANDLORD|LEASE|PROPERTY\s*MGMT|APARTMENTS?)\b`,
			Priority:   90,
			Confidence: 0.90,
		},
		{
			Name:       "Utilities",
			Category:   "Utilities",
			Regex:      `\b(ELECTRIC|POWER|WATER|GAS\s*CO|INTERNET|COMCAST|XFINITY|VERIZON|AT&T|T-MOBILE|PG&E)\b`,
			Priority:   85,
			Confidence: 0.85,
		},

		// Travel before transport so "Uber Flight" style strings go to Travel
		{
			Name:       "Travel",
			Category:   "Travel",
			Regex:      `\b(AIRLINES?|AIRWAYS|FLIGHT|DELTA|UNITED|SOUTHWEST|HOTEL|MARRIOTT|HILTON|AIRBNB|EXPEDIA|BOOKING\.COM)\b`,
			Priority:   80,
			Confidence: 0.85,
		},
		{
			Name:       "Transport",
			Category:   "Transport",
			Regex:      `\b(UBER|LYFT|TAXI|METRO|TRANSIT|SUBWAY\s*FARE|PARKING|SHELL|CHEVRON|EXXON|FUEL|GAS\s*STATION|TOLL)\b`,
			Priority:   75,
			Confidence: 0.85,
		},

		// Food
		{
			Name:       "Groceries",
			Category:   "Groceries",
			Regex:      `\b(WHOLE\s*FOODS|TRADER\s*JOE'?S|SAFEWAY|KROGER|ALDI|COSTCO|PUBLIX|GROCERY|SUPERMARKET|MARKET)\b`,
			Priority:   70,
			Confidence: 0.85,
		},
		{
			Name:       "Food & Drink",
			Category:   "Food & Drink",
			Regex:      `\b(STARBUCKS|COFFEE|CAFE|MCDONALD'?S|CHIPOTLE|PIZZA|BURGER|RESTAURANT|DINER|BAR|DOORDASH|GRUBHUB|UBER\s*EATS)\b`,
			Priority:   78,
			Confidence: 0.80,
		},

		// Health
		{
			Name:       "Health",
			Category:   "Health",
			Regex:      `\b(PHARMACY|CVS|WALGREENS|DOCTOR|DENTAL|DENTIST|CLINIC|HOSPITAL|GYM|FITNESS)\b`,
			Priority:   65,
			Confidence: 0.80,
		},

		// Entertainment and subscriptions
		{
			Name:       "Entertainment",
			Category:   "Entertainment",
			Regex:      `\b(NETFLIX|SPOTIFY|HULU|DISNEY|HBO|CINEMA|MOVIES?|THEATER|STEAM|PLAYSTATION|XBOX|CONCERT|TICKETMASTER)\b`,
			Priority:   60,
			Confidence: 0.85,
		},

		// Shopping - lowest priority
		{
			Name:       "Shopping",
			Category:   "Shopping",
			Regex:      `\b(AMAZON|AMZN|TARGET|WALMART|BEST\s*BUY|IKEA|EBAY|ETSY|MALL|STORE)\b`,
			Priority:   40,
			Confidence: 0.70,
		},
	}
}
