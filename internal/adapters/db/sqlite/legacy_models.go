package sqlite

import (
	"github.com/atvirokodosprendimai/liveforever-migrate/internal/domain"
)

type LegacyPersonModel struct {
	ID                     uint    `gorm:"column:id;primaryKey"`
	Nome                   string  `gorm:"column:nome"`
	Detta                  string  `gorm:"column:detta"`
	Cognome                string  `gorm:"column:cognome"`
	Sesso                  int     `gorm:"column:sesso"`
	DataNascita            string  `gorm:"column:datanascita"`
	DataMorte              *string `gorm:"column:datamorte"`
	CittaNascita           string  `gorm:"column:cittanascita"`
	ProvinciaNascita       string  `gorm:"column:provincianascita"`
	NazioneNascita         string  `gorm:"column:nazionenascita"`
	Mail                   string  `gorm:"column:mail"`
	Tel                    string  `gorm:"column:tel"`
	DataInserimento        *string `gorm:"column:datainserimento"`
	DataUltimaModifica     *string `gorm:"column:dataultimamodifica"`
	IDInseritore           int     `gorm:"column:idinseritore"`
	Immagine               int     `gorm:"column:immagine"`
	CittaResidenza         string  `gorm:"column:cittaresidenza"`
	ProvinciaResidenza     string  `gorm:"column:provinciaresidenza"`
	NazioneResidenza       string  `gorm:"column:nazioneresidenza"`
	LinkFB                 string  `gorm:"column:linkfb"`
	LinkTweter             string  `gorm:"column:linktweter"`
	LinkYoutube            string  `gorm:"column:linkyoutube"`
	Curriculum             int     `gorm:"column:curriculum"`
	Foto                   int     `gorm:"column:foto"`
	LifeExtention          int     `gorm:"column:lifeextention"`
	Crediti                int     `gorm:"column:crediti"`
	Occupazione            int     `gorm:"column:occupazione"`
	DescrizioneOccupazione *string `gorm:"column:descrizioneoccupazione"`
	CF                     string  `gorm:"column:cf"`
	TitoloDiStudio         string  `gorm:"column:titolodistudio"`
	CausaDecesso           *string `gorm:"column:causa_decesso"`
	NumeroAborti           int     `gorm:"column:numeroaborti"`
}

func (LegacyPersonModel) TableName() string { return "anagrafica" }

func (m LegacyPersonModel) toDomain() domain.LegacyPerson {
	return domain.LegacyPerson{
		ID:                    m.ID,
		FirstName:             m.Nome,
		Nickname:              m.Detta,
		LastName:              m.Cognome,
		Sex:                   m.Sesso,
		BirthDate:             m.DataNascita,
		DeathDate:             deref(m.DataMorte),
		BirthCity:             m.CittaNascita,
		BirthProvince:         m.ProvinciaNascita,
		BirthCountry:          m.NazioneNascita,
		Email:                 m.Mail,
		Phone:                 m.Tel,
		InsertedAt:            deref(m.DataInserimento),
		UpdatedAt:             deref(m.DataUltimaModifica),
		InsertedBy:            m.IDInseritore,
		Image:                 m.Immagine,
		ResidenceCity:         m.CittaResidenza,
		ResidenceProvince:     m.ProvinciaResidenza,
		ResidenceCountry:      m.NazioneResidenza,
		FacebookLink:          m.LinkFB,
		TwitterLink:           m.LinkTweter,
		YoutubeLink:           m.LinkYoutube,
		Curriculum:            m.Curriculum,
		Photo:                 m.Foto,
		LifeExtension:         m.LifeExtention,
		Credits:               m.Crediti,
		Occupation:            m.Occupazione,
		OccupationDescription: deref(m.DescrizioneOccupazione),
		FiscalCode:            m.CF,
		EducationTitle:        m.TitoloDiStudio,
		CauseOfDeath:          deref(m.CausaDecesso),
		Miscarriages:          m.NumeroAborti,
	}
}

type LegacyTreeModel struct {
	ID                    uint    `gorm:"column:id;primaryKey"`
	PID                   uint    `gorm:"column:pid"`
	GTTID                 uint    `gorm:"column:gttid"`
	PayedAt               *string `gorm:"column:payed_at"`
	FlagActive            int     `gorm:"column:flag_active"`
	StripePaymentIntentID *string `gorm:"column:stripe_payment_intent_id"`
	Total                 *string `gorm:"column:total"`
}

func (LegacyTreeModel) TableName() string { return "genealogical_tree" }

func (m LegacyTreeModel) toDomain() domain.LegacyTree {
	return domain.LegacyTree{
		ID:                    m.ID,
		OwnerPersonID:         m.PID,
		TemplateID:            m.GTTID,
		PaidAt:                deref(m.PayedAt),
		Active:                m.FlagActive == 1,
		StripePaymentIntentID: deref(m.StripePaymentIntentID),
		Total:                 deref(m.Total),
	}
}

type LegacyTreePersonModel struct {
	ID       uint   `gorm:"column:id;primaryKey"`
	GTID     uint   `gorm:"column:gtid"`
	PID      uint   `gorm:"column:pid"`
	TRID     uint   `gorm:"column:trid"`
	Position string `gorm:"column:position"`
	TRAID    int    `gorm:"column:traid"`
}

func (LegacyTreePersonModel) TableName() string { return "genealogical_tree_person" }

type LegacyTemplateModel struct {
	ID          uint    `gorm:"column:id;primaryKey"`
	Title       string  `gorm:"column:title"`
	Description *string `gorm:"column:description"`
	Picture     *string `gorm:"column:picture"`
	Template    *string `gorm:"column:template"`
	Cost        *string `gorm:"column:cost"`
}

func (LegacyTemplateModel) TableName() string { return "genealogical_tree_template" }

func (m LegacyTemplateModel) toDomain() domain.LegacyTemplate {
	return domain.LegacyTemplate{
		ID:          m.ID,
		Title:       m.Title,
		Description: deref(m.Description),
		Picture:     deref(m.Picture),
		Template:    deref(m.Template),
		Cost:        deref(m.Cost),
	}
}

type LegacyTemplateItemModel struct {
	ID         uint   `gorm:"column:id;primaryKey"`
	GTTID      uint   `gorm:"column:gttid"`
	MaxPersons int    `gorm:"column:max_persons"`
	Position   string `gorm:"column:position"`
	Priority   int    `gorm:"column:priority"`
	TRAID      int    `gorm:"column:traid"`
}

func (LegacyTemplateItemModel) TableName() string { return "genealogical_tree_template_item" }

type LegacyCityModel struct {
	ID          uint    `gorm:"column:id;primaryKey"`
	CodIstat    string  `gorm:"column:cod_istat"`
	Nome        *string `gorm:"column:nome"`
	ProvinciaID string  `gorm:"column:provincia_id"`
}

func (LegacyCityModel) TableName() string { return "citta" }

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
