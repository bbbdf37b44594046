package dispatcher

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type logLine struct {
	level string
	msg   string
	kv    []any
}

// recordingLogger keeps every line it is given.
type recordingLogger struct {
	lines []logLine
}

func (l *recordingLogger) Debug(msg string, kv ...any) { l.add("DEBUG", msg, kv) }
func (l *recordingLogger) Info(msg string, kv ...any)  { l.add("INFO", msg, kv) }
func (l *recordingLogger) Error(msg string, kv ...any) { l.add("ERROR", msg, kv) }

func (l *recordingLogger) add(level, msg string, kv []any) {
	l.lines = append(l.lines, logLine{level: level, msg: msg, kv: kv})
}

func (l *recordingLogger) levels() []string {
	out := make([]string, 0, len(l.lines))
	for _, line := range l.lines {
		out = append(out, line.level)
	}
	return out
}

func newDispatcher(t *testing.T) (*Dispatcher, *recordingLogger) {
	t.Helper()
	log := &recordingLogger{}
	d, err := New(log)
	require.NoError(t, err)
	return d, log
}

func TestDispatch_RoutesToHandler(t *testing.T) {
	d, _ := newDispatcher(t)
	var got Event
	d.Register(":ROUND:SITE:", func(e Event) (any, error) {
		got = e
		return "scheduled", nil
	})

	res, err := d.Dispatch(Event{Command: ":ROUND:SITE:", Args: []string{"B"}})

	require.NoError(t, err)
	assert.Equal(t, "scheduled", res)
	assert.Equal(t, []string{"B"}, got.Args)
}

func TestDispatch_UnknownCommand(t *testing.T) {
	d, _ := newDispatcher(t)

	_, err := d.Dispatch(Event{Command: ":ROUND:END:"})

	assert.ErrorIs(t, err, ErrUnknownCommand)
	assert.ErrorContains(t, err, ":ROUND:END:")
}

func TestRegister_ReplacesHandler(t *testing.T) {
	d, _ := newDispatcher(t)
	d.Register(":STATUS:", func(Event) (any, error) { return "old", nil })
	d.Register(":STATUS:", func(Event) (any, error) { return "new", nil })

	res, err := d.Dispatch(Event{Command: ":STATUS:"})

	require.NoError(t, err)
	assert.Equal(t, "new", res)
	assert.Equal(t, 1, d.Commands())
}

func TestMinArgs(t *testing.T) {
	d, _ := newDispatcher(t)
	calls := 0
	d.Register(":PLAYER:TEAM:", func(Event) (any, error) {
		calls++
		return nil, nil
	}, MinArgs(2, "<slot> <team>"))

	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{"no args", nil, true},
		{"one short", []string{"4"}, true},
		{"exact", []string{"4", "CT"}, false},
		{"extra", []string{"4", "CT", "ignored"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := calls
			_, err := d.Dispatch(Event{Command: ":PLAYER:TEAM:", Args: tt.args})
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUsage)
				assert.ErrorContains(t, err, "<slot> <team>")
				assert.Equal(t, before, calls, "handler must not run")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, before+1, calls)
		})
	}
}

func TestRecovered(t *testing.T) {
	d, _ := newDispatcher(t)
	d.Register(":GRENADE:ADD:", func(Event) (any, error) { panic("nil pawn") }, Recovered())

	res, err := d.Dispatch(Event{Command: ":GRENADE:ADD:"})

	assert.Nil(t, res)
	assert.ErrorContains(t, err, ":GRENADE:ADD:: handler panic: nil pawn")
}

func TestLogged(t *testing.T) {
	t.Run("success logs start and end at debug", func(t *testing.T) {
		d, log := newDispatcher(t)
		d.Register(":MAP:START:", func(Event) (any, error) { return 5, nil }, Logged())

		_, err := d.Dispatch(Event{Command: ":MAP:START:", Args: []string{"de_mirage"}})

		require.NoError(t, err)
		assert.Equal(t, []string{"DEBUG", "DEBUG"}, log.levels())
		assert.Contains(t, log.lines[0].kv, ":MAP:START:")
	})

	t.Run("handler error is logged", func(t *testing.T) {
		d, log := newDispatcher(t)
		d.Register(":GRENADE:RELOAD:", func(Event) (any, error) { return nil, errors.New("no map loaded") }, Logged())

		_, err := d.Dispatch(Event{Command: ":GRENADE:RELOAD:"})

		require.Error(t, err)
		assert.Equal(t, []string{"DEBUG", "ERROR"}, log.levels())
		assert.Equal(t, "Host command failed", log.lines[1].msg)
	})

	t.Run("usage error is logged", func(t *testing.T) {
		d, log := newDispatcher(t)
		d.Register(":CVAR:", func(Event) (any, error) { return nil, nil }, MinArgs(2, "<name> <value>"), Logged())

		_, err := d.Dispatch(Event{Command: ":CVAR:", Args: []string{"mp_freezetime"}})

		assert.ErrorIs(t, err, ErrUsage)
		assert.Contains(t, log.levels(), "ERROR")
	})

	t.Run("nil logger", func(t *testing.T) {
		d, err := New(nil)
		require.NoError(t, err)
		d.Register(":STATUS:", func(Event) (any, error) { return "{}", nil }, Logged())

		res, err := d.Dispatch(Event{Command: ":STATUS:"})

		require.NoError(t, err)
		assert.Equal(t, "{}", res)
	})
}

func TestCombinedOptions(t *testing.T) {
	d, log := newDispatcher(t)
	d.Register(":ROUND:SITE:", func(e Event) (any, error) {
		if e.Args[0] == "C" {
			panic(fmt.Sprintf("no site %s", e.Args[0]))
		}
		return "ok", nil
	}, MinArgs(1, "<A|B>"), Recovered(), Logged())

	res, err := d.Dispatch(Event{Command: ":ROUND:SITE:", Args: []string{"A"}})
	require.NoError(t, err)
	assert.Equal(t, "ok", res)

	_, err = d.Dispatch(Event{Command: ":ROUND:SITE:", Args: []string{"C"}})
	assert.ErrorContains(t, err, "no site C")
	assert.Equal(t, "ERROR", log.lines[len(log.lines)-1].level)
}

func TestHasHandler(t *testing.T) {
	d, _ := newDispatcher(t)
	d.Register(":PLAYER:LEAVE:", func(Event) (any, error) { return nil, nil })

	assert.True(t, d.HasHandler(":PLAYER:LEAVE:"))
	assert.False(t, d.HasHandler(":PLAYER:JOIN:"))
	assert.Equal(t, 1, d.Commands())
}
