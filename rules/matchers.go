package rules

// RFC 5234 core rules.
var (
	Alpha    = InRange('a', 'z').Or(InRange('A', 'Z'))
	LowAlpha = InRange('a', 'z')
	Digit    = InRange('0', '9')
	AlphaNum = Alpha.Or(Digit)
	HexDig   = Digit.Or(InRange('a', 'f'), InRange('A', 'F'))
	CTL      = InRange(0x00, 0x1f).Or(Is(0x7f))
	WSP      = AnyOf(" \t")
	VChar    = InRange(0x21, 0x7e)
)

// RFC 7230 section 3.2.6.
var (
	// ObsText is the high half of the byte range, allowed in quoted text.
	ObsText = InRange(0x80, 0xff)

	// TChar is the set of token characters.
	TChar = AlphaNum.Or(AnyOf("!#$%&'*+-.^_`|~"))

	QDText = WSP.Or(Is(0x21), InRange(0x23, 0x5b), InRange(0x5d, 0x7e), ObsText)
	CText  = WSP.Or(InRange(0x21, 0x27), InRange(0x2a, 0x5b), InRange(0x5d, 0x7e), ObsText)

	// QuotedPairChar is what may follow a backslash inside quoted text.
	QuotedPairChar = WSP.Or(VChar, ObsText)
)

// MIMETokenChar is an RFC 2045 token character: any US-ASCII CHAR except
// SPACE, CTLs and tspecials.
var MIMETokenChar = InRange(0x00, 0x7f).
	And(CTL.Negate()).
	Without(` ()<>@,;:\"/[]?=`)

// RFC 3986.
var (
	SchemeChar = AlphaNum.Or(AnyOf("+-."))
	Unreserved = AlphaNum.Or(AnyOf("-._~"))
	SubDelims  = AnyOf("!$&'()*+,;=")
	PChar      = Unreserved.Or(SubDelims, AnyOf(":@"))
)

// AttrChar is the RFC 5987 attr-char set used in ext-value encodings.
var AttrChar = AlphaNum.Or(AnyOf("!#$&+-.^_`|~"))

// RegRelTypeChar covers the tail of an RFC 5988 reg-rel-type.
var RegRelTypeChar = LowAlpha.Or(Digit, AnyOf(".-"))

// PTokenChar is the RFC 5988 ptokenchar set for unquoted link parameter
// values.
var PTokenChar = AlphaNum.Or(AnyOf("!#$%&'()*+-./:<=>?@[]^_`{|}~"))
