package gate

import "testing"

func TestDecode(t *testing.T) {
	cases := []struct {
		payload string
		want    Command
		ok      bool
	}{
		{"CMD_OPEN", Open, true},
		{"CMD_STOP", Stop, true},
		{"CMD_CLOSE", Close, true},
		{"cmd_open", None, false},
		{"CMD_OPEN\n", None, false},
		{"CMD_OPENX", None, false},
		{"CMD_OPE", None, false},
		{"CMD_", None, false},
		{"", None, false},
		{"OPEN", None, false},
	}
	for _, tc := range cases {
		t.Run(tc.payload, func(t *testing.T) {
			got, ok := Decode([]byte(tc.payload))
			if got != tc.want || ok != tc.ok {
				t.Errorf("Decode(%q) = (%v, %v), want (%v, %v)", tc.payload, got, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestDecode_NeverProducesNone(t *testing.T) {
	for _, p := range []string{"", "none", "NONE", "CMD_NONE"} {
		if cmd, ok := Decode([]byte(p)); ok || cmd != None {
			t.Errorf("Decode(%q) = (%v, %v)", p, cmd, ok)
		}
	}
}

func TestCommand_String(t *testing.T) {
	want := map[Command]string{None: "none", Open: "open", Stop: "stop", Close: "close", Command(42): "unknown"}
	for c, s := range want {
		if c.String() != s {
			t.Errorf("%d.String() = %q, want %q", int(c), c.String(), s)
		}
	}
}
