// Package seasonality computes classical seasonal indices for monthly
// municipal metrics.
//
// # Input
//
// Raw data arrives as a column-oriented table. The schema adapter reads a
// year-month column ("YYYY-MM", parsed to the first of the month), a
// municipality column, a numeric metric column, and optionally a
// pre-computed trend column. Rows with unparseable dates or non-numeric
// metrics are dropped; a missing column is a configuration error.
//
// # Numeric conventions
//
// Every method produces a 12-entry index, January through December, in the
// base-100 convention: 100 means "no seasonality" for that month. Indices
// are normalized so the twelve months sum to 1200 (mean 100). NaN marks
// months a method could not compute; sanitization turns NaN and infinities
// into JSON nulls at the output boundary. Missing values never raise: means
// and medians skip NaN entries, divide-by-zero ratios become nulls, and a
// zero or non-finite normalization sum passes the index through unscaled.
//
// # The five methods
//
//	A Simple Averages:          month mean / overall mean
//	B Ratio-to-Trend:           month mean of y/trend; trend supplied per row
//	                            or fitted by log-linear OLS on the time index
//	C Ratio-to-Moving-Average:  month mean of y/centered 12-month MA; the even
//	                            window is re-centered by averaging two adjacent
//	                            trailing means
//	D Link Relatives:           month mean of y_t/y_{t-1}*100, chained from
//	                            January = 100
//	E Ratio-to-Median:          month median / median of month medians
//
// Series shorter than thirteen months have no centered moving average at
// any position, so method C yields an all-null index for them. Method D's
// January average is null for a series that never crosses a year boundary;
// the chain then carries that null through the rest of the year. Both are
// documented degenerate behaviors, not errors.
package seasonality
