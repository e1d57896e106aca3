package client

import (
	"cipher-ledger/go-client/internal/codec"
	"cipher-ledger/go-client/pkg/models"
)

// RegisterInstruction creates the profile record of user.
// Accounts: [user signer/writable, profile writable, system program].
func (c *Client) RegisterInstruction(user models.Address, encryptionPublicKey [models.PublicKeySize]byte) (models.Instruction, models.Address, error) {
	profile, _, err := c.deriver.Profile(user)
	if err != nil {
		return models.Instruction{}, models.Address{}, err
	}
	return models.Instruction{
		ProgramID: c.deriver.ProgramID,
		Accounts: []models.AccountMeta{
			signerMeta(user),
			writableMeta(profile),
			readonlyMeta(models.SystemProgramID),
		},
		Data: c.codec.EncodeRegister(codec.RegisterCommand{EncryptionPublicKey: encryptionPublicKey}),
	}, profile, nil
}

// CreateNoteInstruction stores an already encrypted note at the address
// derived from (creator, timestamp).
// Accounts: [user signer/writable, note writable, system program].
func (c *Client) CreateNoteInstruction(creator models.Address, cmd codec.CreateNoteCommand) (models.Instruction, models.Address, error) {
	note, _, err := c.deriver.Note(creator, cmd.Timestamp)
	if err != nil {
		return models.Instruction{}, models.Address{}, err
	}
	data, err := c.codec.EncodeCreateNote(cmd)
	if err != nil {
		return models.Instruction{}, models.Address{}, err
	}
	return models.Instruction{
		ProgramID: c.deriver.ProgramID,
		Accounts: []models.AccountMeta{
			signerMeta(creator),
			writableMeta(note),
			readonlyMeta(models.SystemProgramID),
		},
		Data: data,
	}, note, nil
}

// Accounts: [user signer/writable, note writable].
func (c *Client) UpdateNoteInstruction(creator, note models.Address, cmd codec.UpdateNoteCommand) (models.Instruction, error) {
	data, err := c.codec.EncodeUpdateNote(cmd)
	if err != nil {
		return models.Instruction{}, err
	}
	return models.Instruction{
		ProgramID: c.deriver.ProgramID,
		Accounts:  []models.AccountMeta{signerMeta(creator), writableMeta(note)},
		Data:      data,
	}, nil
}

// Accounts: [user signer/writable, note writable].
func (c *Client) DeleteNoteInstruction(creator, note models.Address) models.Instruction {
	return models.Instruction{
		ProgramID: c.deriver.ProgramID,
		Accounts:  []models.AccountMeta{signerMeta(creator), writableMeta(note)},
		Data:      c.codec.EncodeDeleteNote(),
	}
}

// SendMessageInstruction stores an already encrypted message at the address
// derived from (sender, recipient, timestamp).
// Accounts: [sender signer/writable, recipient, recipient profile, message writable, system program].
func (c *Client) SendMessageInstruction(sender, recipient models.Address, cmd codec.SendMessageCommand) (models.Instruction, models.Address, error) {
	profile, _, err := c.deriver.Profile(recipient)
	if err != nil {
		return models.Instruction{}, models.Address{}, err
	}
	message, _, err := c.deriver.Message(sender, recipient, cmd.Timestamp)
	if err != nil {
		return models.Instruction{}, models.Address{}, err
	}
	data, err := c.codec.EncodeSendMessage(cmd)
	if err != nil {
		return models.Instruction{}, models.Address{}, err
	}
	return models.Instruction{
		ProgramID: c.deriver.ProgramID,
		Accounts: []models.AccountMeta{
			signerMeta(sender),
			readonlyMeta(recipient),
			readonlyMeta(profile),
			writableMeta(message),
			readonlyMeta(models.SystemProgramID),
		},
		Data: data,
	}, message, nil
}

func signerMeta(address models.Address) models.AccountMeta {
	return models.AccountMeta{Address: address, IsSigner: true, IsWritable: true}
}

func writableMeta(address models.Address) models.AccountMeta {
	return models.AccountMeta{Address: address, IsWritable: true}
}

func readonlyMeta(address models.Address) models.AccountMeta {
	return models.AccountMeta{Address: address}
}
