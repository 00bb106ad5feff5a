package app

import (
	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
	"golang.org/x/crypto/ed25519"
)

// verifySignatures ensures that every account the message header requires
// to sign has a valid signature over the serialized message.
func verifySignatures(tx types.Transaction) error {
	msg := tx.Message
	required := int(msg.Header.NumRequireSignatures)
	if required == 0 {
		return errors.Wrap(errors.ErrMissingSignature, "no fee payer")
	}
	if required > len(msg.Accounts) {
		return errors.Wrapf(errors.ErrInvalidArgument, "%d signers for %d accounts", required, len(msg.Accounts))
	}
	if len(tx.Signatures) != required {
		return errors.Wrapf(errors.ErrMissingSignature, "want %d signatures, got %d", required, len(tx.Signatures))
	}
	raw, err := msg.Serialize()
	if err != nil {
		return errors.Wrap(errors.ErrInvalidArgument, err.Error())
	}
	for i := 0; i < required; i++ {
		key := msg.Accounts[i]
		if !ed25519.Verify(ed25519.PublicKey(key[:]), raw, tx.Signatures[i]) {
			return errors.Wrapf(errors.ErrMissingSignature, "invalid signature of %s", key.ToBase58())
		}
	}
	return nil
}

// accountMetas returns the accounts of the message with the privileges
// the header grants them. Signers come first, read-only accounts are the
// last ones of the signed and the unsigned group.
func accountMetas(msg types.Message) []types.AccountMeta {
	var (
		n          = len(msg.Accounts)
		signed     = int(msg.Header.NumRequireSignatures)
		roSigned   = int(msg.Header.NumReadonlySignedAccounts)
		roUnsigned = int(msg.Header.NumReadonlyUnsignedAccounts)
	)
	metas := make([]types.AccountMeta, n)
	for i, key := range msg.Accounts {
		m := types.AccountMeta{PubKey: key}
		if i < signed {
			m.IsSigner = true
			m.IsWritable = i < signed-roSigned
		} else {
			m.IsWritable = i < n-roUnsigned
		}
		metas[i] = m
	}
	return metas
}

// instructionAccounts resolves the account indexes of a compiled
// instruction into views of the loaded accounts.
func instructionAccounts(metas []types.AccountMeta, loaded map[common.PublicKey]*tokenswap.Account, ci types.CompiledInstruction) (common.PublicKey, []*tokenswap.AccountInfo, error) {
	if ci.ProgramIDIndex < 0 || ci.ProgramIDIndex >= len(metas) {
		return common.PublicKey{}, nil, errors.Wrapf(errors.ErrInvalidArgument, "program index %d", ci.ProgramIDIndex)
	}
	programID := metas[ci.ProgramIDIndex].PubKey
	if !loaded[programID].Executable {
		return programID, nil, errors.Wrapf(errors.ErrIncorrectProgramID, "%s is not executable", programID.ToBase58())
	}

	infos := make([]*tokenswap.AccountInfo, 0, len(ci.Accounts))
	for _, idx := range ci.Accounts {
		if idx < 0 || idx >= len(metas) {
			return programID, nil, errors.Wrapf(errors.ErrInvalidArgument, "account index %d", idx)
		}
		m := metas[idx]
		infos = append(infos, &tokenswap.AccountInfo{
			Key:        m.PubKey,
			IsSigner:   m.IsSigner,
			IsWritable: m.IsWritable,
			Account:    loaded[m.PubKey],
		})
	}
	return programID, infos, nil
}
