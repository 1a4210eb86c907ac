// Package deob reverses string-array rotation obfuscation: it finds the
// rotation bootstrap, replays it to recover the string table, and inlines
// every decoder call as a string literal.
package deob

import (
	"fmt"

	"github.com/apex/log"
	"github.com/apex/log/handlers/discard"

	m "github.com/mouse-blink/unrotate/internal/model"
)

const identPattern = `[A-Za-z_$][\w$]*`

// Options tunes recognition.
type Options struct {
	// DecoderName forces the canonical decoder name instead of detecting it.
	DecoderName string
	// Logger receives debug output; nil discards it.
	Logger log.Interface
}

func (o Options) logger() log.Interface {
	if o.Logger != nil {
		return o.Logger
	}

	return &log.Logger{Handler: discard.Default, Level: log.FatalLevel}
}

// Result is a deobfuscated script plus what was learned on the way.
type Result struct {
	Text       string
	Stats      RewriteStats
	Inspection m.Inspection
}

// Analyze runs every recognition step without rewriting: decoder, bootstrap,
// offset, array, rotation and aliases.
func Analyze(text string, opts Options) (m.Inspection, error) {
	logger := opts.logger()

	decoder := opts.DecoderName
	if decoder == "" {
		name, err := LocateDecoder(text)
		if err != nil {
			fromBootstrap, bootErr := DecoderFromBootstrap(text)
			if bootErr != nil {
				return m.Inspection{}, err
			}

			name = fromBootstrap
		}

		decoder = name
	}

	logger.WithField("decoder", decoder).Debug("decoder located")

	info, err := LocateBootstrap(text, decoder)
	if err != nil {
		return m.Inspection{}, err
	}

	logger.WithFields(log.Fields{
		"provider": info.ArrayProvider,
		"alias":    info.DecoderAlias,
		"target":   fmt.Sprintf("%#x", info.Target),
	}).Debug("bootstrap located")

	offset, err := ExtractOffset(text, decoder)
	if err != nil {
		return m.Inspection{}, err
	}

	table, err := ExtractArray(text, info.ArrayProvider)
	if err != nil {
		return m.Inspection{}, err
	}

	logger.WithFields(log.Fields{"offset": offset, "entries": len(table)}).Debug("string table extracted")

	converged, rotations, err := Rotate(table, info, offset)
	if err != nil {
		return m.Inspection{}, err
	}

	logger.WithField("rotations", rotations).Debug("rotation converged")

	aliases := ResolveAliases(text, decoder)

	return m.Inspection{
		Decoder:   decoder,
		Bootstrap: info,
		Offset:    offset,
		Rotations: rotations,
		Table:     converged,
		Aliases:   aliases.Sorted(),
	}, nil
}

// Deobfuscate analyzes text and rewrites every decoder call site.
func Deobfuscate(text string, opts Options) (*Result, error) {
	insp, err := Analyze(text, opts)
	if err != nil {
		return nil, err
	}

	aliases := m.AliasSet{}
	for _, a := range insp.Aliases {
		aliases[a] = struct{}{}
	}

	fn := NewDecodeFunction(insp.Table, insp.Offset)

	out, stats, err := Rewrite(text, fn, aliases, NewDecodeCache(fn.Len()))
	if err != nil {
		return nil, err
	}

	opts.logger().WithFields(log.Fields{
		"unique":  stats.UniqueIndices,
		"sites":   stats.CallSites,
		"aliases": stats.Aliases,
	}).Debug("call sites rewritten")

	return &Result{Text: out, Stats: stats, Inspection: insp}, nil
}
