package prover

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/backend/plonk"
	"github.com/consensys/gnark/backend/witness"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/test/unsafekzg"
)

// keyPair hides the proving system behind one set of operations.
type keyPair interface {
	prove(ccs constraint.ConstraintSystem, full witness.Witness, opts ...backend.ProverOption) ([]byte, error)
	verify(proof []byte, public witness.Witness) error
	exportSolidity(w io.Writer) error
	save(pkPath, vkPath string) error
}

type groth16Keys struct {
	pk groth16.ProvingKey
	vk groth16.VerifyingKey
}

func setupGroth16(ccs constraint.ConstraintSystem) (keyPair, error) {
	pk, vk, err := groth16.Setup(ccs)
	if err != nil {
		return nil, err
	}
	return &groth16Keys{pk: pk, vk: vk}, nil
}

func loadGroth16(pkPath, vkPath string) (keyPair, error) {
	pk := groth16.NewProvingKey(ecc.BN254)
	if err := readFile(pkPath, pk); err != nil {
		return nil, err
	}
	vk := groth16.NewVerifyingKey(ecc.BN254)
	if err := readFile(vkPath, vk); err != nil {
		return nil, err
	}
	return &groth16Keys{pk: pk, vk: vk}, nil
}

func (k *groth16Keys) prove(ccs constraint.ConstraintSystem, full witness.Witness, opts ...backend.ProverOption) ([]byte, error) {
	proof, err := groth16.Prove(ccs, k.pk, full, opts...)
	if err != nil {
		return nil, err
	}
	buf := bytes.NewBuffer(nil)
	if _, err := proof.WriteTo(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (k *groth16Keys) verify(bzProof []byte, public witness.Witness) error {
	proof := groth16.NewProof(ecc.BN254)
	if _, err := proof.ReadFrom(bytes.NewReader(bzProof)); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedProof, err)
	}
	return groth16.Verify(proof, k.vk, public)
}

func (k *groth16Keys) exportSolidity(w io.Writer) error {
	return k.vk.ExportSolidity(w)
}

func (k *groth16Keys) save(pkPath, vkPath string) error {
	if err := writeFile(pkPath, k.pk); err != nil {
		return err
	}
	return writeFile(vkPath, k.vk)
}

type plonkKeys struct {
	pk plonk.ProvingKey
	vk plonk.VerifyingKey
}

func setupPlonk(ccs constraint.ConstraintSystem) (keyPair, error) {
	// unsafe SRS: the toxic waste is known to this process
	srs, srsLagrange, err := unsafekzg.NewSRS(ccs)
	if err != nil {
		return nil, err
	}
	pk, vk, err := plonk.Setup(ccs, srs, srsLagrange)
	if err != nil {
		return nil, err
	}
	return &plonkKeys{pk: pk, vk: vk}, nil
}

func loadPlonk(pkPath, vkPath string) (keyPair, error) {
	pk := plonk.NewProvingKey(ecc.BN254)
	if err := readFile(pkPath, pk); err != nil {
		return nil, err
	}
	vk := plonk.NewVerifyingKey(ecc.BN254)
	if err := readFile(vkPath, vk); err != nil {
		return nil, err
	}
	return &plonkKeys{pk: pk, vk: vk}, nil
}

func (k *plonkKeys) prove(ccs constraint.ConstraintSystem, full witness.Witness, opts ...backend.ProverOption) ([]byte, error) {
	proof, err := plonk.Prove(ccs, k.pk, full, opts...)
	if err != nil {
		return nil, err
	}
	buf := bytes.NewBuffer(nil)
	if _, err := proof.WriteTo(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (k *plonkKeys) verify(bzProof []byte, public witness.Witness) error {
	proof := plonk.NewProof(ecc.BN254)
	if _, err := proof.ReadFrom(bytes.NewReader(bzProof)); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedProof, err)
	}
	return plonk.Verify(proof, k.vk, public)
}

func (k *plonkKeys) exportSolidity(w io.Writer) error {
	return k.vk.ExportSolidity(w)
}

func (k *plonkKeys) save(pkPath, vkPath string) error {
	if err := writeFile(pkPath, k.pk); err != nil {
		return err
	}
	return writeFile(vkPath, k.vk)
}

// writeFile leaves no partial key file behind on failure, so a later load
// sees os.ErrNotExist and runs the setup again.
func writeFile(path string, v io.WriterTo) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()
	_, err = v.WriteTo(f)
	return err
}

func readFile(path string, v io.ReaderFrom) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = v.ReadFrom(f)
	return err
}

// setupOrLoad reads the key pair from pkPath and vkPath when both exist and
// otherwise runs the setup and writes the keys there. With loadOnly set,
// missing keys are an error.
func setupOrLoad(s Scheme, ccs constraint.ConstraintSystem, pkPath, vkPath string, loadOnly bool) (keyPair, bool, error) {
	load, setup := loadGroth16, setupGroth16
	if s == Plonk {
		load, setup = loadPlonk, setupPlonk
	}

	if pkPath != "" {
		keys, err := load(pkPath, vkPath)
		if err == nil {
			return keys, true, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, false, fmt.Errorf("load keys %s: %w", filepath.Base(pkPath), err)
		}
	}
	if loadOnly {
		return nil, false, fmt.Errorf("%w: %s", ErrMissingKeys, pkPath)
	}

	keys, err := setup(ccs)
	if err != nil {
		return nil, false, err
	}
	if pkPath != "" {
		if err := os.MkdirAll(filepath.Dir(pkPath), 0o755); err != nil {
			return nil, false, err
		}
		if err := keys.save(pkPath, vkPath); err != nil {
			return nil, false, err
		}
	}
	return keys, false, nil
}
