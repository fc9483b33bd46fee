package uppermac

import (
	"strings"
	"testing"

	tetra "github.com/tetra-rx/tetra-kit"
	"github.com/tetra-rx/tetra-kit/bit"
	"github.com/tetra-rx/tetra-kit/cell"
	"github.com/tetra-rx/tetra-kit/macdefrag"
	"github.com/tetra-rx/tetra-kit/pdu"
)

// bitsFromString builds a PDU from a string of '0'/'1' characters, the
// same shape as the teacher's table-driven codec tests.
func bitsFromString(s string) pdu.PDU {
	b := make(bit.Bits, len(s))
	for i, r := range s {
		if r == '1' {
			b[i] = 1
		}
	}
	return pdu.New(b)
}

func newTestContext() *Context {
	t := tetra.NewTime()
	stolen := false
	return &Context{
		Cell:             cell.New(),
		Time:             &t,
		MacState:         &tetra.MacState{},
		MacAddress:       &tetra.MacAddress{},
		EncTable:         &tetra.EncryptionTable{},
		Defrag:           macdefrag.New(),
		SecondSlotStolen: &stolen,
	}
}

func TestDecodeLength(t *testing.T) {
	cases := []struct {
		val  uint8
		want uint32
	}{
		{0b000000, 0},
		{1, 1},
		{0b010010, 18},
		{19, 19},
		{0b111010, 18 + (0b111010 - 18)},
		{lenSecondHalfStolen, lenSecondHalfStolen},
		{lenStartFragment, lenStartFragment},
	}
	for _, c := range cases {
		if got := decodeLength(c.val); got != c.want {
			t.Errorf("decodeLength(0b%06b) = %d, want %d", c.val, got, c.want)
		}
	}
}

func TestRemoveFillBits(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"1011", "101"},
		{"10110", "101"},
		{"101100", "101"},
		{"1", ""},
		{"0", ""},
	}
	for _, c := range cases {
		got := removeFillBits(bitsFromString(c.in)).String()
		if got != c.want {
			t.Errorf("removeFillBits(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestProcessAACHCommonControlOnFrame18(t *testing.T) {
	ctx := newTestContext()
	ctx.Time.Fn = 18
	// header=0b01 (not 00), field1 = traffic marker value, to prove frame 18 wins.
	p := bitsFromString("01" + "000100" + "000000")
	processAACH(ctx, p)
	if ctx.MacState.DownlinkUsage != tetra.UsageCommonControl {
		t.Fatalf("DownlinkUsage = %v, want common control on frame 18", ctx.MacState.DownlinkUsage)
	}
}

func TestProcessAACHTrafficMarker(t *testing.T) {
	ctx := newTestContext()
	ctx.Time.Fn = 1
	p := bitsFromString("01" + "010101" + "000000")
	processAACH(ctx, p)
	if ctx.MacState.DownlinkUsage != tetra.UsageTraffic {
		t.Fatalf("DownlinkUsage = %v, want traffic", ctx.MacState.DownlinkUsage)
	}
	if ctx.MacState.DownlinkUsageMarker != 0b010101 {
		t.Fatalf("DownlinkUsageMarker = %d, want 0b010101", ctx.MacState.DownlinkUsageMarker)
	}
}

func TestProcessBSCHUpdatesTimeAndCell(t *testing.T) {
	ctx := newTestContext()
	// system code(4) colour code(6) tn(2) fn(5) mn(6) sharing(2) reserved(3)
	// dtx(1) frame18ext(1) reserved(1) = 31 bits, then mcc(10) mnc(14) = 55, sdu 29 -> total 84 >= 60
	fields := "0000" + "000001" + "10" + "00011" + "000010" + "00" + "000" + "0" + "0" + "0"
	mcc := "0000000001"
	mnc := "00000000000001"
	sdu := strings.Repeat("1", 29)
	p := bitsFromString(fields + mcc + mnc + sdu)

	got := processBSCH(ctx, p)
	if got.Size() != 29 {
		t.Fatalf("SDU size = %d, want 29", got.Size())
	}
	if ctx.Time.Tn != 3 { // tn field 0b10 + 1
		t.Fatalf("Tn = %d, want 3", ctx.Time.Tn)
	}
	if ctx.Time.Fn != 3 {
		t.Fatalf("Fn = %d, want 3", ctx.Time.Fn)
	}
	if ctx.Cell.MCC != 1 || ctx.Cell.MNC != 1 {
		t.Fatalf("MCC/MNC = %d/%d, want 1/1", ctx.Cell.MCC, ctx.Cell.MNC)
	}
}

func TestProcessBSCHTooShort(t *testing.T) {
	ctx := newTestContext()
	p := bitsFromString(strings.Repeat("0", 10))
	got := processBSCH(ctx, p)
	if got.Size() != 0 {
		t.Fatalf("expected empty SDU for undersized BSCH PDU, got %d bits", got.Size())
	}
}

func TestProcessResourceNullAddressStopsDissection(t *testing.T) {
	ctx := newTestContext()
	// type(2) fillbit(1)=0 pos-of-grant(1)=0 encmode(2)=0 randomaccess(1)=0 length(6)=0 addrtype(3)=000
	p := bitsFromString("00" + "0" + "0" + "00" + "0" + "000000" + "000")
	sdu, size, frag := processResource(ctx, p)
	if size != -1 || frag {
		t.Fatalf("NULL PDU: size=%d frag=%v, want -1/false", size, frag)
	}
	if sdu.Size() != 0 {
		t.Fatalf("NULL PDU: sdu size = %d, want 0", sdu.Size())
	}
}

func TestProcessResourceSSIAddressNoSDU(t *testing.T) {
	ctx := newTestContext()
	ssi := strings.Repeat("0", 23) + "1" // SSI = 1
	p := bitsFromString("00" + "0" + "0" + "00" + "0" + "000001" + "001" + ssi + "0" + "0" + "0")
	sdu, size, frag := processResource(ctx, p)
	if frag {
		t.Fatal("expected non-fragmented PDU")
	}
	if ctx.MacAddress.Type != tetra.AddressSSI || ctx.MacAddress.SSI != 1 {
		t.Fatalf("MacAddress = %+v, want SSI=1", ctx.MacAddress)
	}
	if size <= 0 {
		t.Fatalf("pduSizeInMac = %d, want > 0", size)
	}
	if sdu.Size() != 0 {
		t.Fatalf("sdu size = %d, want 0 (length field leaves no room for SDU)", sdu.Size())
	}
}

func TestProcessResourceStartFragmentOpensReassembly(t *testing.T) {
	ctx := newTestContext()
	length := bitsFromString("111111").String() // start-of-fragment sentinel
	ssi := strings.Repeat("0", 23) + "1"
	payload := "10101010101010101010101010101010101010101010101010"
	p := bitsFromString("00" + "0" + "0" + "00" + "0" + length + "001" + ssi + "0" + "0" + "0" + payload)

	_, _, frag := processResource(ctx, p)
	if !frag {
		t.Fatal("expected fragmented PDU")
	}
	if *ctx.SecondSlotStolen {
		t.Fatal("SecondSlotStolen should be cleared on start-of-fragment")
	}
	if !ctx.Defrag.Active() {
		t.Fatal("expected an active reassembly after start-of-fragment")
	}
}

func TestDissectAACHCarriesNoReport(t *testing.T) {
	ctx := newTestContext()
	p := bitsFromString("00" + "000000" + "000000")
	reports := Dissect(ctx, p, tetra.ChannelAACH)
	if len(reports) != 0 {
		t.Fatalf("got %d reports from AACH, want 0", len(reports))
	}
}

func TestDissectStopsWhenRemainingBitsTooFew(t *testing.T) {
	ctx := newTestContext()
	// A short SCH/HD burst: PDU type 0b00 (MAC-RESOURCE) immediately followed
	// by a NULL address, leaving well under minRemainingBits after it.
	p := bitsFromString("00" + "0" + "0" + "00" + "0" + "000000" + "000")
	reports := Dissect(ctx, p, tetra.ChannelSCHHD)
	if len(reports) != 0 {
		t.Fatalf("got %d reports, want 0 for a NULL MAC-RESOURCE", len(reports))
	}
}
