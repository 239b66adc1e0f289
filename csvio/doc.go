// Package csvio reads quote sessions from MBP-1 CSV exports and writes decoded
// archives back out as CSV.
//
// Input files are named "<SYMBOL>_<YYYY-MM-DD>_<anything>.csv" and carry the columns
// ts_event, bid_px_00, ask_px_00, bid_sz_00 and ask_sz_00; other columns are ignored.
// Empty cells are missing values and are resolved by tick.Fill.
//
// Output files carry one row per record:
//
//	Timestamp_us,DateTime,PriceBid,PriceAsk,SizeBid,SizeAsk
//	1700000000000000,2023-11-14T22:13:20.000000Z,101.23400,101.23600,12.00,8.00
package csvio
