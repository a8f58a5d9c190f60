package bcb

import "time"

// IPCAFixings holds monthly IPCA variation, 2020 through 2024.
var IPCAFixings = map[int]map[time.Month]float64{
	2020: {
		time.January: 0.0021, time.February: 0.0025, time.March: 0.0007,
		time.April: -0.0031, time.May: -0.0038, time.June: 0.0026,
		time.July: 0.0036, time.August: 0.0024, time.September: 0.0064,
		time.October: 0.0086, time.November: 0.0089, time.December: 0.0123,
	},
	2021: {
		time.January: 0.0025, time.February: 0.0086, time.March: 0.0093,
		time.April: 0.0031, time.May: 0.0083, time.June: 0.0053,
		time.July: 0.0096, time.August: 0.0087, time.September: 0.0044,
		time.October: 0.0106, time.November: 0.0095, time.December: 0.0073,
	},
	2022: {
		time.January: 0.0054, time.February: 0.0099, time.March: 0.0062,
		time.April: 0.0106, time.May: 0.0047, time.June: 0.0067,
		time.July: -0.0068, time.August: -0.0036, time.September: -0.0029,
		time.October: 0.0059, time.November: 0.0041, time.December: 0.0062,
	},
	2023: {
		time.January: 0.0053, time.February: 0.0084, time.March: 0.0071,
		time.April: 0.0061, time.May: 0.0023, time.June: -0.0008,
		time.July: 0.0012, time.August: 0.0023, time.September: 0.0026,
		time.October: 0.0024, time.November: 0.0028, time.December: 0.0056,
	},
	2024: {
		time.January: 0.0042, time.February: 0.0083, time.March: 0.0016,
		time.April: 0.0057, time.May: 0.0046, time.June: 0.0062,
		time.July: 0.0070, time.August: 0.0074, time.September: 0.0050,
		time.October: 0.0048, time.November: 0.0040, time.December: 0.0038,
	},
}

// CDIFixings holds the effective monthly CDI rate, 2020 through 2024.
var CDIFixings = map[int]map[time.Month]float64{
	2020: {
		time.January: 0.0038, time.February: 0.0029, time.March: 0.0034,
		time.April: 0.0028, time.May: 0.0024, time.June: 0.0021,
		time.July: 0.0019, time.August: 0.0016, time.September: 0.0016,
		time.October: 0.0016, time.November: 0.0015, time.December: 0.0016,
	},
	2021: {
		time.January: 0.0015, time.February: 0.0013, time.March: 0.0020,
		time.April: 0.0021, time.May: 0.0027, time.June: 0.0031,
		time.July: 0.0036, time.August: 0.0042, time.September: 0.0044,
		time.October: 0.0048, time.November: 0.0059, time.December: 0.0077,
	},
	2022: {
		time.January: 0.0073, time.February: 0.0075, time.March: 0.0092,
		time.April: 0.0083, time.May: 0.0103, time.June: 0.0108,
		time.July: 0.0109, time.August: 0.0114, time.September: 0.0113,
		time.October: 0.0119, time.November: 0.0113, time.December: 0.0112,
	},
	2023: {
		time.January: 0.0121, time.February: 0.0092, time.March: 0.0113,
		time.April: 0.0092, time.May: 0.0098, time.June: 0.0102,
		time.July: 0.0103, time.August: 0.0104, time.September: 0.0105,
		time.October: 0.0105, time.November: 0.0098, time.December: 0.0097,
	},
	2024: {
		time.January: 0.0096, time.February: 0.0092, time.March: 0.0097,
		time.April: 0.0092, time.May: 0.0093, time.June: 0.0094,
		time.July: 0.0094, time.August: 0.0095, time.September: 0.0095,
		time.October: 0.0095, time.November: 0.0096, time.December: 0.0096,
	},
}
