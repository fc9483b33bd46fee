package uppermac

// channelAllocation consumes a channel allocation element (EN 300 392-2
// §21.5.2, table 21.72) from c, advancing past it entirely. It does not
// report the assignment anywhere: this decoder only needs to stay aligned
// with the rest of the PDU, not follow the MS onto the assigned channel
// (mac.cc:pduProcessResource's CHANNEL_ALLOCATION branch).
//
// fn is the current TDMA frame number: the monitoring pattern field carries
// two extra bits only when fn == 18 and the pattern itself is 0b00
// (§21.5.2, note 3).
func channelAllocation(c *cursor, fn uint8) {
	c.skip(2)  // channel allocation type
	c.skip(4)  // timeslot(s) assigned
	ulDl := c.read(2) // up/downlink assigned
	c.skip(1)  // CLCH permission
	c.skip(1)  // cell change flag
	c.skip(12) // carrier number
	if c.read(1) == 1 {
		// extended carrier numbering
		c.skip(4) // frequency band
		c.skip(2) // offset
		c.skip(3) // duplex spacing
		c.skip(1) // reverse operation
	}
	pattern := c.read(2) // monitoring pattern
	if pattern == 0b00 && fn == 18 {
		c.skip(2) // frame 18 monitoring pattern
	}

	if ulDl != 0 {
		return
	}

	// Augmented channel allocation element, present only when the basic
	// element's up/downlink assigned field is 0b00 (§21.5.2c, table 21.73c).
	c.skip(2) // bandwidth
	c.skip(3) // class of usage
	c.skip(3) // traffic carrier type
	c.skip(3) // channel allocation timer
	c.skip(3) // up/downlink assigned, repeated
	c.skip(3) // traffic carrier type, repeated
	c.skip(4) // timeslot(s), repeated
	c.skip(5) // slot granting delay
	if c.read(2) == 1 { // napping status
		c.skip(11) // napping information
	}
	c.skip(4) // reserved / traffic carrier type qualifiers
	if c.read(1) == 1 {
		c.skip(16) // frequency band/offset/duplex/carrier extension 1
	}
	if c.read(1) == 1 {
		c.skip(16) // frequency band/offset/duplex/carrier extension 2
	}
	c.skip(1) // reserved
}
