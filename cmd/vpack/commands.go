package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/urfave/cli"

	"vpack-mapper/internal/config"
	"vpack-mapper/internal/yamltree"
	"vpack-mapper/mapper"
	"vpack-mapper/vpack"
)

const (
	formatText = "text"
	formatYAML = "yaml"
	formatGo   = "go"
)

var (
	errMissingInput  = errors.New("missing input file, use - for stdin")
	errMissingConfig = errors.New("missing configuration file")
	errInvalidConfig = errors.New("configuration has errors")
)

// session is the mapper set up from the global flags.
type session struct {
	vp   *mapper.VPack
	keys vpack.KeyTranslator
}

func newSession(ctx *cli.Context) (*session, error) {
	path := ctx.GlobalString(configFile.Name)
	if path == "" {
		return &session{vp: mapper.New(nil)}, nil
	}

	f, err := config.LoadFile(path)
	if err != nil {
		return nil, err
	}

	opts, err := f.Options()
	if err != nil {
		return nil, err
	}

	table, err := f.KeyTable()
	if err != nil {
		return nil, err
	}

	s := &session{vp: mapper.New(nil, opts...)}
	if table != nil {
		s.keys = table
	}

	return s, nil
}

func (s *session) parse(ctx *cli.Context) (vpack.Slice, error) {
	path := ctx.Args().First()
	if path == "" {
		return vpack.Slice{}, errMissingInput
	}

	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return vpack.Slice{}, err
	}

	var opts []vpack.BuilderOption
	if s.keys != nil {
		opts = append(opts, vpack.WithKeyTranslator(s.keys))
	}

	tree, err := yamltree.Parse(data, opts...)
	if err != nil {
		return vpack.Slice{}, fmt.Errorf("%s: %w", path, err)
	}

	log.Debug("document parsed", "path", path, "type", tree.Type())
	return tree, nil
}

func dump(ctx *cli.Context) error {
	s, err := newSession(ctx)
	if err != nil {
		return err
	}

	tree, err := s.parse(ctx)
	if err != nil {
		return err
	}

	out := ctx.App.Writer
	switch f := ctx.String(format.Name); f {
	case formatText:
		_, err = fmt.Fprintln(out, tree.String())
	case formatYAML:
		var data []byte
		data, err = yamltree.Marshal(tree)
		if err == nil {
			_, err = out.Write(data)
		}
	case formatGo:
		var v any
		v, err = mapper.DeserializeAs[any](s.vp, tree)
		if err == nil {
			_, err = fmt.Fprint(out, spew.Sdump(v))
		}
	default:
		err = fmt.Errorf("unknown format %q", f)
	}

	return err
}

func check(ctx *cli.Context) error {
	path := ctx.Args().First()
	if path == "" {
		path = ctx.GlobalString(configFile.Name)
	}
	if path == "" {
		return errMissingConfig
	}

	f, err := config.LoadFile(path)
	if err != nil {
		return err
	}

	diags := config.Validate(f)
	for _, d := range diags.All() {
		fmt.Fprintln(ctx.App.Writer, d.String())
	}

	if diags.HasErrors() {
		return fmt.Errorf("%w: %d error(s)", errInvalidConfig, len(diags.Errors))
	}

	fmt.Fprintf(ctx.App.Writer, "%s: ok\n", path)
	if !ctx.Bool(resolved.Name) {
		return nil
	}

	data, err := config.Marshal(f)
	if err != nil {
		return err
	}

	_, err = ctx.App.Writer.Write(data)
	return err
}

func roundtrip(ctx *cli.Context) error {
	s, err := newSession(ctx)
	if err != nil {
		return err
	}

	tree, err := s.parse(ctx)
	if err != nil {
		return err
	}

	v, err := mapper.DeserializeAs[any](s.vp, tree)
	if err != nil {
		return err
	}

	back, err := s.vp.Serialize(v)
	if err != nil {
		return err
	}

	data, err := yamltree.Marshal(back)
	if err != nil {
		return err
	}

	log.Trace("round trip done", "before", tree.String(), "after", back.String())

	_, err = ctx.App.Writer.Write(data)
	return err
}
