package effect

// crt simulates a curved CRT screen: lens distortion for the curve plus a
// luma-only scanline pattern on odd lines.
type crt struct {
	name      string
	k1, k2    string
	scanlines string
}

func (c *crt) GetName() string { return c.name }

func (c *crt) GetFilter() string {
	if c.k1 == "" {
		return ""
	}
	return "lenscorrection=k1=" + c.k1 + ":k2=" + c.k2 +
		",geq='lum=lum(X,Y)*if(mod(Y,2)," + c.scanlines + ",1):cb=cb(X,Y):cr=cr(X,Y)'"
}

func init() {
	Register(&crt{name: "off"})
	Register(&crt{name: "crt-light", k1: "-0.15", k2: "-0.05", scanlines: "0.9"})
	Register(&crt{name: "crt-medium", k1: "-0.3", k2: "-0.15", scanlines: "0.8"})
	Register(&crt{name: "crt-heavy", k1: "-0.5", k2: "-0.25", scanlines: "0.65"})
}
