package models

const (
	PublicKeySize = 32
	NonceSize     = 24
)

// Profile is the decoded profile account of a registered wallet.
type Profile struct {
	Wallet              Address             `json:"wallet"`
	EncryptionPublicKey [PublicKeySize]byte `json:"encryption_public_key"`
	CreatedAt           int64               `json:"created_at"`
}

// Note is a private note encrypted to its creator.
type Note struct {
	Creator    Address         `json:"creator"`
	Ciphertext []byte          `json:"ciphertext"`
	Nonce      [NonceSize]byte `json:"nonce"`
}

// Message is a peer message encrypted to the recipient's encryption key.
type Message struct {
	From               Address             `json:"from"`
	To                 Address             `json:"to"`
	Timestamp          int64               `json:"timestamp"`
	EphemeralPublicKey [PublicKeySize]byte `json:"ephemeral_public_key"`
	Nonce              [NonceSize]byte     `json:"nonce"`
	Ciphertext         []byte              `json:"ciphertext"`
}

type KeyedNote struct {
	Address Address `json:"address"`
	Note    Note    `json:"note"`
}

type KeyedMessage struct {
	Address Address `json:"address"`
	Message Message `json:"message"`
}

type AccountMeta struct {
	Address    Address `json:"address"`
	IsSigner   bool    `json:"is_signer"`
	IsWritable bool    `json:"is_writable"`
}

// Instruction is a program call ready for submission: target program, ordered
// account list and the encoded command buffer.
type Instruction struct {
	ProgramID Address       `json:"program_id"`
	Accounts  []AccountMeta `json:"accounts"`
	Data      []byte        `json:"data"`
}
