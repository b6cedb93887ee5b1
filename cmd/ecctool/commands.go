package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/taurusgroup/eccore/pkg/ecdh"
	"github.com/taurusgroup/eccore/pkg/hash"
	"github.com/taurusgroup/eccore/pkg/keys"
	"github.com/taurusgroup/eccore/pkg/math/curve"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"
)

var errInvalidSignature = errors.New("signature verification failed")

func (a *app) curve() (curve.Curve, error) {
	return curve.ByName(a.v.GetString(keyCurve))
}

func (a *app) hash() (hash.Hash, error) {
	return hash.ByName(a.v.GetString(keyHash))
}

// readMessage returns the message given inline, or the content of path ("-" for stdin).
func readMessage(cmd *cobra.Command, inline, path string) ([]byte, error) {
	switch {
	case inline != "" && path != "":
		return nil, errors.New("--message and --in are exclusive")
	case inline != "":
		return []byte(inline), nil
	case path == "-":
		return io.ReadAll(cmd.InOrStdin())
	case path != "":
		return os.ReadFile(path)
	default:
		return nil, errors.New("no message: use --message or --in")
	}
}

type curveInfo struct {
	Name      string `json:"name" yaml:"name"`
	OID       string `json:"oid,omitempty" yaml:"oid,omitempty"`
	FieldBits int    `json:"field_bits" yaml:"field_bits"`
	OrderBits int    `json:"order_bits" yaml:"order_bits"`
	Cofactor  int64  `json:"cofactor" yaml:"cofactor"`
	Koblitz   bool   `json:"koblitz,omitempty" yaml:"koblitz,omitempty"`
}

func describe(c curve.Curve) curveInfo {
	info := curveInfo{
		Name:      c.Name(),
		FieldBits: c.FieldBits(),
		OrderBits: c.Order().BitLen(),
		Cofactor:  c.Cofactor().Int64(),
		Koblitz:   c.IsKoblitz(),
	}
	if oid := c.OID(); len(oid) > 0 {
		info.OID = oid.String()
	}
	return info
}

func (a *app) curvesCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "curves",
		Short: "List the supported curves",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			infos := make([]curveInfo, 0, len(curve.Names()))
			for _, name := range curve.Names() {
				c, err := curve.ByName(name)
				if err != nil {
					return err
				}
				infos = append(infos, describe(c))
			}
			out := cmd.OutOrStdout()
			switch format {
			case "yaml":
				data, err := yaml.Marshal(infos)
				if err != nil {
					return err
				}
				_, err = out.Write(data)
				return err
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(infos)
			case "text":
				for _, info := range infos {
					oid := info.OID
					if oid == "" {
						oid = "-"
					}
					fmt.Fprintf(out, "%-10s %-22s field=%d order=%d h=%d\n", info.Name, oid, info.FieldBits, info.OrderBits, info.Cofactor)
				}
				return nil
			default:
				return errors.Errorf("unknown format %q", format)
			}
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "output format (text, json, yaml)")
	return cmd
}

func (a *app) keygenCmd() *cobra.Command {
	var (
		out string
		raw bool
	)
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate a key pair",
		Long: "Generate a key pair. The private key is written as PKCS#8 PEM and the public key " +
			"as SubjectPublicKeyInfo PEM, or both as hex with --raw. With --scheme ecgdsa the " +
			"public key is the ECGDSA verification key.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			group, err := a.curve()
			if err != nil {
				return err
			}
			s, err := lookupScheme(a.v.GetString(keyScheme))
			if err != nil {
				return err
			}

			kp := keys.Generate(group)
			pub, err := s.public(kp)
			if err != nil {
				return err
			}
			private, err := encodePrivate(kp, raw)
			if err != nil {
				return err
			}
			public, err := encodePublic(pub, raw)
			if err != nil {
				return err
			}
			a.logger.Info("generated key pair", zap.String("curve", group.Name()), zap.Bool("raw", raw))

			if out == "" {
				w := cmd.OutOrStdout()
				if _, err = w.Write(private); err != nil {
					return err
				}
				_, err = w.Write(public)
				return err
			}
			if err = os.WriteFile(out+".key", private, 0o600); err != nil {
				return err
			}
			a.logger.Debug("wrote key files", zap.String("private", out+".key"), zap.String("public", out+".pub"))
			return os.WriteFile(out+".pub", public, 0o644)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "write <out>.key and <out>.pub instead of stdout")
	cmd.Flags().BoolVar(&raw, "raw", false, "hex raw keys instead of PEM")
	return cmd
}

func (a *app) signCmd() *cobra.Command {
	var keyPath, message, in string
	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Sign a message and print the signature in hex",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			group, err := a.curve()
			if err != nil {
				return err
			}
			h, err := a.hash()
			if err != nil {
				return err
			}
			name := a.v.GetString(keyScheme)
			s, err := lookupScheme(name)
			if err != nil {
				return err
			}
			kp, err := readKey(keyPath, group)
			if err != nil {
				return err
			}
			msg, err := readMessage(cmd, message, in)
			if err != nil {
				return err
			}

			sig, err := s.sign(kp, h, msg)
			if err != nil {
				return err
			}
			a.logger.Info("signed message",
				zap.String("scheme", name),
				zap.String("curve", kp.Curve().Name()),
				zap.Stringer("hash", h),
				zap.Int("length", len(msg)))
			_, err = fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(sig))
			return err
		},
	}
	cmd.Flags().StringVarP(&keyPath, "key", "k", "", "private key file (PEM or hex)")
	cmd.Flags().StringVarP(&message, "message", "m", "", "message to sign")
	cmd.Flags().StringVarP(&in, "in", "i", "", "file holding the message, - for stdin")
	_ = cmd.MarkFlagRequired("key")
	return cmd
}

func (a *app) verifyCmd() *cobra.Command {
	var keyPath, message, in, sigHex string
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify a hex signature",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			group, err := a.curve()
			if err != nil {
				return err
			}
			h, err := a.hash()
			if err != nil {
				return err
			}
			name := a.v.GetString(keyScheme)
			s, err := lookupScheme(name)
			if err != nil {
				return err
			}
			kp, err := readKey(keyPath, group)
			if err != nil {
				return err
			}
			var pub curve.Point
			if kp.HasPrivate() {
				pub, err = s.public(kp)
			} else {
				pub, err = kp.Public()
			}
			if err != nil {
				return err
			}
			msg, err := readMessage(cmd, message, in)
			if err != nil {
				return err
			}
			sig, err := hex.DecodeString(strings.TrimSpace(sigHex))
			if err != nil {
				return errors.Wrap(err, "signature")
			}

			if !s.verify(pub, h, msg, sig) {
				a.logger.Warn("invalid signature", zap.String("scheme", name), zap.String("curve", pub.Curve().Name()))
				return errInvalidSignature
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "OK")
			return err
		},
	}
	cmd.Flags().StringVarP(&keyPath, "key", "k", "", "public or private key file (PEM or hex)")
	cmd.Flags().StringVarP(&message, "message", "m", "", "signed message")
	cmd.Flags().StringVarP(&in, "in", "i", "", "file holding the message, - for stdin")
	cmd.Flags().StringVarP(&sigHex, "signature", "s", "", "signature in hex")
	_ = cmd.MarkFlagRequired("key")
	_ = cmd.MarkFlagRequired("signature")
	return cmd
}

func (a *app) agreeCmd() *cobra.Command {
	var keyPath, peerPath string
	var cofactor bool
	cmd := &cobra.Command{
		Use:   "agree",
		Short: "Derive an ECDH shared secret and print it in hex",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			group, err := a.curve()
			if err != nil {
				return err
			}
			kp, err := readKey(keyPath, group)
			if err != nil {
				return err
			}
			peer, err := readKey(peerPath, kp.Curve())
			if err != nil {
				return err
			}
			q, err := peer.Public()
			if err != nil {
				return err
			}

			agree := ecdh.Agree
			if cofactor {
				agree = ecdh.AgreeCofactor
			}
			secret, err := agree(kp, q)
			if err != nil {
				return err
			}
			a.logger.Info("derived shared secret", zap.String("curve", kp.Curve().Name()), zap.Bool("cofactor", cofactor))
			_, err = fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(secret))
			return err
		},
	}
	cmd.Flags().StringVarP(&keyPath, "key", "k", "", "own private key file")
	cmd.Flags().StringVarP(&peerPath, "peer", "p", "", "peer public key file")
	cmd.Flags().BoolVar(&cofactor, "cofactor", false, "cofactor Diffie-Hellman (ECDHC)")
	_ = cmd.MarkFlagRequired("key")
	_ = cmd.MarkFlagRequired("peer")
	return cmd
}
