// Package shared holds helpers used by more than one leadexporter package.
//
// The testutil subpackage provides a buffered slog handler for asserting on
// log output and builders for the lead sheet workbooks used as test fixtures:
//
//	func TestSomething(t *testing.T) {
//	    logger, logs := testutil.NewTestLogger(t)
//	    input := testutil.WriteWorkbook(t, t.TempDir(), "leads.xlsx", "",
//	        testutil.LeadHeader, testutil.SampleLeadRows())
//	    ...
//	}
//
// Nothing in this package carries business logic.
package shared
